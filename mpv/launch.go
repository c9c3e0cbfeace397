package mpv

import (
	"context"
	"os"
	"os/exec"

	"github.com/user/touch-ref-logger/deps"
	"github.com/user/touch-ref-logger/video"
)

// LaunchMpv starts mpv on a local file or URL with the IPC socket enabled.
// It checks that mpv (and yt-dlp for remote URLs) is installed first and
// returns an error with an install link if not.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func LaunchMpv(ctx context.Context, source, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if video.IsURL(source) {
		if err := deps.CheckYtDlp(); err != nil {
			return nil, err
		}
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed run would accept no connections.
	os.Remove(socketPath)

	cmd := exec.CommandContext(ctx, "mpv",
		"--input-ipc-server="+socketPath,
		"--force-window=yes",
		"--keep-open=yes",
		"--osd-level=1",
		source,
	)

	// Start the process (non-blocking)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}
