package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL   = "https://mpv.io/installation/"
	YtDlpInstallURL = "https://github.com/yt-dlp/yt-dlp#installation"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
	Purpose    string
}

func (e *DependencyError) Error() string {
	if e.Purpose != "" {
		return fmt.Sprintf("%s not found (needed for %s). Install from: %s", e.Name, e.Purpose, e.InstallURL)
	}
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Status is the result of looking up one external program.
type Status struct {
	Name    string
	Path    string
	Purpose string
	Err     error
}

// Found reports whether the program is on PATH.
func (s Status) Found() bool {
	return s.Err == nil
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func check(name, installURL, purpose string) Status {
	path, err := lookPath(name)
	if err != nil {
		return Status{
			Name:    name,
			Purpose: purpose,
			Err:     &DependencyError{Name: name, InstallURL: installURL, Purpose: purpose},
		}
	}
	return Status{Name: name, Path: path, Purpose: purpose}
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return check("mpv", MpvInstallURL, "video playback").Err
}

// CheckYtDlp checks if yt-dlp is installed; mpv uses it to stream YouTube URLs.
func CheckYtDlp() error {
	return check("yt-dlp", YtDlpInstallURL, "YouTube playback").Err
}

// Report looks up every external program and returns one status each.
func Report() []Status {
	return []Status{
		check("mpv", MpvInstallURL, "video playback"),
		check("yt-dlp", YtDlpInstallURL, "YouTube playback"),
	}
}
