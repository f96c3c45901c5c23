package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/tmux-popup-path/internal/app"
	"github.com/atomicstack/tmux-popup-path/internal/config"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
)

func stubApp(t *testing.T, value string, err error) *app.Config {
	t.Helper()
	var seen app.Config
	prev := runApp
	runApp = func(cfg app.Config) (string, error) {
		seen = cfg
		return value, err
	}
	t.Cleanup(func() { runApp = prev })
	return &seen
}

func TestRunPrintsPathInStdoutMode(t *testing.T) {
	seen := stubApp(t, "/srv/data", nil)
	var stdout, stderr bytes.Buffer
	code := run(config.Config{App: app.Config{Output: "stdout", Root: "/srv"}}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout.String() != "/srv/data\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if seen.Root != "/srv" {
		t.Fatalf("app config not passed through: %+v", *seen)
	}
}

func TestRunQuietForTmuxOutputs(t *testing.T) {
	stubApp(t, "/srv/data", nil)
	var stdout, stderr bytes.Buffer
	if code := run(config.Config{App: app.Config{Output: "send-keys"}}, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("send-keys mode should not print, got %q", stdout.String())
	}
}

func TestRunCancelled(t *testing.T) {
	stubApp(t, "", fmt.Errorf("session: %w", picker.ErrCancelled))
	var stdout, stderr bytes.Buffer
	if code := run(config.Config{}, &stdout, &stderr); code != exitCancelled {
		t.Fatalf("expected exit 130, got %d", code)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Fatalf("cancel should be silent, got stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestRunFailure(t *testing.T) {
	stubApp(t, "", errors.New("no server"))
	var stdout, stderr bytes.Buffer
	if code := run(config.Config{}, &stdout, &stderr); code != exitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no server") {
		t.Fatalf("expected error on stderr, got %q", stderr.String())
	}
}

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.FDs) != 3 {
		t.Fatalf("expected 3 descriptor entries, got %d", len(info.FDs))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.FDs[i].Name != name {
			t.Fatalf("expected descriptor %d name %q, got %q", i, name, info.FDs[i].Name)
		}
	}
	if info.StdoutRedirected == info.FDs[1].IsTerminal {
		t.Fatalf("redirect flag should mirror the stdout descriptor")
	}
}

func TestInspectFDRejectsInvalidDescriptor(t *testing.T) {
	if entry := inspectFD("bogus", -1); entry.IsTerminal {
		t.Fatalf("negative descriptor should not be a terminal")
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath: "socket-path",
			Kind:       "directory",
			Output:     "buffer",
			Width:      80,
			ShowFooter: true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		File: "/etc/popup.toml",
		Flags: map[string]string{
			"socket": "socket-path",
			"kind":   "directory",
			"width":  "80",
			"footer": "true",
		},
		Args: []string{"--socket", "socket-path"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "socket-path" {
		t.Fatalf("expected socket flag %q, got %v", "socket-path", flagsValue["socket"])
	}
	if flagsValue["kind"] != "directory" {
		t.Fatalf("expected kind flag, got %v", flagsValue["kind"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}
	if payload["configFile"] != "/etc/popup.toml" {
		t.Fatalf("expected config file in payload, got %v", payload["configFile"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}
