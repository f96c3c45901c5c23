package tmux

import (
	"fmt"
)

// SendKeys types value literally into target, or into the originating pane
// when target is empty. No Enter is sent.
func SendKeys(socketPath, target, value string) error {
	pane, err := resolvePane(target)
	if err != nil {
		return err
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	if _, err := client.Command("send-keys", "-t", pane, "-l", "--", value); err != nil {
		return fmt.Errorf("send-keys: %w", err)
	}
	return nil
}

// SetBuffer stores value in a new paste buffer.
func SetBuffer(socketPath, value string) error {
	client, err := newTmux(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	if _, err := client.Command("set-buffer", "--", value); err != nil {
		return fmt.Errorf("set-buffer: %w", err)
	}
	return nil
}
