package tmux

import (
	"fmt"
	"strings"
)

// PaneCurrentPath reports the working directory of target, or of the pane
// the popup was opened from when target is empty.
func PaneCurrentPath(socketPath, target string) (string, error) {
	pane, err := resolvePane(target)
	if err != nil {
		return "", err
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return "", err
	}
	defer client.Close()
	out, err := client.DisplayMessage(pane, "#{pane_current_path}")
	if err != nil {
		return "", fmt.Errorf("display-message: %w", err)
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", fmt.Errorf("pane %s has no current path", pane)
	}
	return path, nil
}
