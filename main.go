package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/tmux-popup-path/internal/app"
	"github.com/atomicstack/tmux-popup-path/internal/config"
	"github.com/atomicstack/tmux-popup-path/internal/logging"
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	"golang.org/x/term"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitConfig    = 2
	exitCancelled = 130
)

var runApp = app.Run

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(exitConfig)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	os.Exit(run(runtimeCfg, os.Stdout, os.Stderr))
}

// run executes the picker and reports the process exit code. The picked
// path is printed only in stdout mode; a cancelled pick prints nothing.
func run(cfg config.Config, stdout, stderr io.Writer) int {
	value, err := runApp(cfg.App)
	code := exitCode(err)
	events.App.Exit(code, err)
	switch code {
	case exitOK:
		if output, _ := app.ParseOutput(cfg.App.Output); output == app.OutputStdout {
			fmt.Fprintln(stdout, value)
		}
	case exitFailure:
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, picker.ErrCancelled):
		return exitCancelled
	default:
		return exitFailure
	}
}

func traceStartup(cfg config.Config) {
	if !logging.TraceEnabled() {
		return
	}
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"tmux": map[string]string{
			"TMUX":      os.Getenv("TMUX"),
			"TMUX_PANE": os.Getenv("TMUX_PANE"),
		},
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected `json:"detected,omitempty"`
	FDs      []ttyFDState `json:"fds"`
	// StdoutRedirected is set when the path goes to a pipe and the UI is
	// drawn on the controlling terminal.
	StdoutRedirected bool `json:"stdout_redirected"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyFDState struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	fds := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyFDState, 0, len(fds))
	var detected *ttyDetected
	for _, fd := range fds {
		entry := inspectFD(fd.name, int(fd.fd))
		if detected == nil && entry.IsTerminal && entry.Error == "" {
			detected = &ttyDetected{Source: fd.name, Width: entry.Width, Height: entry.Height}
		}
		results = append(results, entry)
	}
	return ttyDetails{
		Detected:         detected,
		FDs:              results,
		StdoutRedirected: !results[1].IsTerminal,
	}
}

func inspectFD(name string, fd int) ttyFDState {
	entry := ttyFDState{Name: name}
	if fd < 0 || !term.IsTerminal(fd) {
		return entry
	}
	entry.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Width = width
	entry.Height = height
	return entry
}
