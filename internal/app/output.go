package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/atomicstack/tmux-popup-path/internal/logging"
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/tmux"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Output selects where an accepted path goes.
type Output string

const (
	// OutputStdout leaves printing to the caller.
	OutputStdout Output = "stdout"
	// OutputSendKeys types the path into the originating pane.
	OutputSendKeys Output = "send-keys"
	// OutputBuffer stores the path in a tmux paste buffer.
	OutputBuffer Output = "buffer"
)

// ParseOutput converts a user-supplied name into an Output.
func ParseOutput(name string) (Output, error) {
	switch Output(strings.ToLower(strings.TrimSpace(name))) {
	case "", OutputStdout:
		return OutputStdout, nil
	case OutputSendKeys, "keys":
		return OutputSendKeys, nil
	case OutputBuffer:
		return OutputBuffer, nil
	default:
		return OutputStdout, fmt.Errorf("unknown output %q (want stdout, send-keys or buffer)", name)
	}
}

var (
	sendKeys  = tmux.SendKeys
	setBuffer = tmux.SetBuffer
)

func deliver(output Output, socketPath, value string) error {
	var err error
	switch output {
	case OutputSendKeys:
		events.Deliver.Send(string(output), tmux.CurrentPane(), value)
		err = sendKeys(socketPath, "", value)
	case OutputBuffer:
		events.Deliver.Send(string(output), "", value)
		err = setBuffer(socketPath, value)
	default:
		return nil
	}
	if err != nil {
		events.Deliver.Error(string(output), err)
		return fmt.Errorf("deliver via %s: %w", output, err)
	}
	return nil
}

var (
	stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	openTTY          = func() (*os.File, error) { return os.OpenFile("/dev/tty", os.O_RDWR, 0) }
)

// programOptions draws on the alternate screen. When the path is printed to
// a redirected stdout the UI is drawn on the controlling terminal instead.
func programOptions(output Output) ([]tea.ProgramOption, func()) {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if output != OutputStdout || stdoutIsTerminal() {
		return opts, func() {}
	}
	tty, err := openTTY()
	if err != nil {
		logging.Errorf("open terminal: %v", err)
		return opts, func() {}
	}
	opts = append(opts, tea.WithOutput(tty))
	return opts, func() { _ = tty.Close() }
}
