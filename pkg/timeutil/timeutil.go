package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadTimestamp is returned by ParseTimestamp for input that is not HH:MM:SS.
var ErrBadTimestamp = errors.New("timestamp must be in HH:MM:SS format")

// FormatTime formats seconds as HH:MM:SS (e.g. 00:01:30, 01:11:22, 100:00:00).
// Fractions are truncated and hours are not wrapped at 24. Negative, NaN and
// infinite input is treated as zero; values past int64 saturate.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	var totalSeconds int64 = math.MaxInt64
	if seconds < math.MaxInt64 {
		totalSeconds = int64(math.Floor(seconds))
	}
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

// maxHours keeps hours*3600 + 59*60 + 59 within int64.
const maxHours = (math.MaxInt64 - 3599) / 3600

// ParseTimestamp strictly parses an HH:MM:SS timestamp as produced by FormatTime.
// Every field needs at least two digits, minutes and seconds must be 00-59.
func ParseTimestamp(value string) (float64, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w, got '%s'", ErrBadTimestamp, value)
	}

	var fields [3]int64
	for i, p := range parts {
		if len(p) < 2 || strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			return 0, fmt.Errorf("%w, got '%s'", ErrBadTimestamp, value)
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w, got '%s'", ErrBadTimestamp, value)
		}
		fields[i] = n
	}

	hours, minutes, secs := fields[0], fields[1], fields[2]
	if minutes > 59 || secs > 59 || hours > maxHours {
		return 0, fmt.Errorf("%w, got '%s'", ErrBadTimestamp, value)
	}
	return float64(hours*3600 + minutes*60 + secs), nil
}

// ParseTimeToSeconds parses a time string in HH:MM:SS, MM:SS, or raw seconds format.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw seconds.
func ParseTimeToSeconds(timeStr string) (float64, error) {
	colons := strings.Count(timeStr, ":")

	switch colons {
	case 2:
		var hours, minutes, seconds int
		if n, err := fmt.Sscanf(timeStr, "%d:%d:%d", &hours, &minutes, &seconds); n == 3 && err == nil {
			return float64(hours*3600 + minutes*60 + seconds), nil
		}
	case 1:
		var minutes, seconds int
		if n, err := fmt.Sscanf(timeStr, "%d:%d", &minutes, &seconds); n == 2 && err == nil {
			return float64(minutes*60 + seconds), nil
		}
	case 0:
		var secs float64
		if n, err := fmt.Sscanf(timeStr, "%f", &secs); n == 1 && err == nil {
			return secs, nil
		}
	}

	return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
}
