// Package tmux talks to the server the popup was launched from: it reads the
// originating pane's working directory and hands the picked path back.
package tmux

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// ErrNoPane is returned when no target pane was given and the process is not
// running inside tmux.
var ErrNoPane = errors.New("tmux: no target pane")

type tmuxClient interface {
	DisplayMessage(target, format string) (string, error)
	Command(parts ...string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// ResolveSocketPath picks the server socket: the explicit value, then the
// socket named in $TMUX, then tmux's default location for the current user.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// CurrentPane returns the pane id tmux exported to this process, if any.
func CurrentPane() string {
	return strings.TrimSpace(os.Getenv("TMUX_PANE"))
}

func resolvePane(target string) (string, error) {
	if t := strings.TrimSpace(target); t != "" {
		return t, nil
	}
	if pane := CurrentPane(); pane != "" {
		return pane, nil
	}
	return "", ErrNoPane
}
