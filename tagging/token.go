package tagging

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input is one raw key delivery. Stamp disambiguates repeated presses of the
// same key; an empty Stamp makes the token the bare key.
type Input struct {
	Key   rune
	Stamp string
}

// Token returns the de-duplication token for the delivery: "k" or "k:stamp".
func (in Input) Token() string {
	k := string(normalizeKey(in.Key))
	if in.Stamp == "" {
		return k
	}
	return k + ":" + in.Stamp
}

// ParseToken splits a raw "k" or "k:stamp" token into an Input.
func ParseToken(raw string) (Input, bool) {
	key, stamp, _ := strings.Cut(raw, ":")
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) {
		return Input{}, false
	}
	return Input{Key: r, Stamp: stamp}, true
}

// Sequencer stamps key presses with a monotonically increasing number so two
// physical presses of the same key never share a token.
type Sequencer struct {
	n uint64
}

// Next returns an Input for key carrying the next sequence number.
func (s *Sequencer) Next(key rune) Input {
	s.n++
	return Input{Key: key, Stamp: strconv.FormatUint(s.n, 10)}
}
