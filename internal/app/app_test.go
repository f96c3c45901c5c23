package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	"github.com/atomicstack/tmux-popup-path/internal/testutil"
	"github.com/atomicstack/tmux-popup-path/internal/ui"
)

func stubRoot(t *testing.T, pane, panePath string, paneErr error, wd string) {
	t.Helper()
	prevPane, prevPath, prevWd := currentPane, paneCurrentPath, getwd
	currentPane = func() string { return pane }
	paneCurrentPath = func(string, string) (string, error) { return panePath, paneErr }
	getwd = func() (string, error) {
		if wd == "" {
			return "", errors.New("no wd")
		}
		return wd, nil
	}
	t.Cleanup(func() {
		currentPane, paneCurrentPath, getwd = prevPane, prevPath, prevWd
	})
}

// stubPicker replaces the interactive session: OnInit runs against a fresh
// model and the returned value or error is handed back.
func stubPicker(t *testing.T, value string, err error) **ui.Model {
	t.Helper()
	var seen *ui.Model
	prev := runPicker
	runPicker = func(newSurface picker.SurfaceFactory, opts picker.Options) (string, error) {
		s := newSurface()
		seen = s.(*ui.Model)
		if opts.OnInit != nil {
			opts.OnInit(s)
		}
		return value, err
	}
	t.Cleanup(func() { runPicker = prev })
	return &seen
}

func stubDelivery(t *testing.T) *[]string {
	t.Helper()
	calls := []string{}
	prevKeys, prevBuf := sendKeys, setBuffer
	sendKeys = func(socket, target, value string) error {
		calls = append(calls, "send-keys "+value)
		return nil
	}
	setBuffer = func(socket, value string) error {
		calls = append(calls, "set-buffer "+value)
		return nil
	}
	t.Cleanup(func() { sendKeys, setBuffer = prevKeys, prevBuf })
	return &calls
}

func TestResolveRootOrder(t *testing.T) {
	stubRoot(t, "%1", "/from/tmux", nil, "/from/cwd")
	if got := resolveRoot("/explicit", ""); got != "/explicit" {
		t.Fatalf("explicit root should win, got %q", got)
	}
	if got := resolveRoot("", ""); got != "/from/tmux" {
		t.Fatalf("expected pane path, got %q", got)
	}

	stubRoot(t, "%1", "", errors.New("no server"), "/from/cwd")
	if got := resolveRoot("", ""); got != "/from/cwd" {
		t.Fatalf("expected cwd fallback after pane failure, got %q", got)
	}

	stubRoot(t, "", "/unused", nil, "/from/cwd")
	if got := resolveRoot("", ""); got != "/from/cwd" {
		t.Fatalf("outside tmux the cwd should be used, got %q", got)
	}

	stubRoot(t, "", "", nil, "")
	if got := resolveRoot("", ""); got != "" {
		t.Fatalf("expected empty root, got %q", got)
	}
}

func TestResolveRootExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := resolveRoot("~/proj", ""); got != filepath.Join(home, "proj") {
		t.Fatalf("expected expanded root, got %q", got)
	}
}

func TestInitialValue(t *testing.T) {
	if got := initialValue("", "/w"); got != "/w/" {
		t.Fatalf("expected root with separator, got %q", got)
	}
	if got := initialValue("", "/"); got != "/" {
		t.Fatalf("expected filesystem root untouched, got %q", got)
	}
	if got := initialValue("docs", "/w"); got != "docs" {
		t.Fatalf("explicit initial value should be kept, got %q", got)
	}
	if got := initialValue("", ""); got != "" {
		t.Fatalf("expected empty initial without root, got %q", got)
	}
}

func TestParseOutput(t *testing.T) {
	for name, want := range map[string]Output{
		"":          OutputStdout,
		"stdout":    OutputStdout,
		"send-keys": OutputSendKeys,
		"KEYS":      OutputSendKeys,
		"buffer":    OutputBuffer,
	} {
		got, err := ParseOutput(name)
		if err != nil || got != want {
			t.Fatalf("ParseOutput(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := ParseOutput("clipboard"); err == nil {
		t.Fatalf("expected error for unknown output")
	}
}

func TestRunSeedsSurfaceAndDelivers(t *testing.T) {
	root := testutil.WriteTree(t, testutil.Tree{
		"src/":      "",
		"README.md": "",
	})
	stubRoot(t, "", "", nil, root)
	seen := stubPicker(t, filepath.Join(root, "src"), nil)
	calls := stubDelivery(t)
	t.Setenv("TMUX", "/tmp/test.sock,1,0")

	got, err := Run(Config{Kind: "directory", Output: "buffer", MaxItems: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != filepath.Join(root, "src") {
		t.Fatalf("unexpected value %q", got)
	}
	m := *seen
	if m.Value() != root+string(filepath.Separator) {
		t.Fatalf("expected initial value inside root, got %q", m.Value())
	}
	items := m.Items()
	if len(items) != 2 {
		t.Fatalf("expected root and src candidates, got %+v", items)
	}
	for _, item := range items {
		if item.Kind != completion.KindDirectory {
			t.Fatalf("directory filter leaked %+v", item)
		}
	}
	if len(*calls) != 1 || (*calls)[0] != "set-buffer "+got {
		t.Fatalf("unexpected delivery %v", *calls)
	}
}

func TestRunCancelledSkipsDelivery(t *testing.T) {
	stubRoot(t, "", "", nil, t.TempDir())
	stubPicker(t, "", picker.ErrCancelled)
	calls := stubDelivery(t)
	t.Setenv("TMUX", "/tmp/test.sock,1,0")

	if _, err := Run(Config{Output: "send-keys"}); !errors.Is(err, picker.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("nothing should be delivered, got %v", *calls)
	}
}

// deadSurface stands in for a program that could not start: showing it
// only hides it again.
type deadSurface struct {
	*ui.Model
	err error
}

func (s *deadSurface) Show()      { s.Emit(picker.EventHidden) }
func (s *deadSurface) Err() error { return s.err }

func TestRunReportsProgramFailureAsError(t *testing.T) {
	stubRoot(t, "", "", nil, t.TempDir())
	calls := stubDelivery(t)
	noTTY := errors.New("could not open a new TTY")
	prev := newSurface
	newSurface = func(opts ui.Options) picker.Surface {
		return &deadSurface{Model: ui.NewModel(opts), err: noTTY}
	}
	t.Cleanup(func() { newSurface = prev })

	_, err := Run(Config{})
	if errors.Is(err, picker.ErrCancelled) {
		t.Fatalf("a failed program must not read as a cancel: %v", err)
	}
	if !errors.Is(err, noTTY) {
		t.Fatalf("expected program error, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("nothing should be delivered, got %v", *calls)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	if _, err := Run(Config{Kind: "socket"}); err == nil {
		t.Fatalf("expected kind error")
	}
	if _, err := Run(Config{Output: "printer"}); err == nil {
		t.Fatalf("expected output error")
	}
}

func TestDeliverReportsFailure(t *testing.T) {
	prev := sendKeys
	sendKeys = func(string, string, string) error { return errors.New("no pane") }
	t.Cleanup(func() { sendKeys = prev })
	if err := deliver(OutputSendKeys, "", "/x"); err == nil {
		t.Fatalf("expected delivery error")
	}
	if err := deliver(OutputStdout, "", "/x"); err != nil {
		t.Fatalf("stdout delivery is the caller's job, got %v", err)
	}
}

func TestProgramOptionsUsesTerminalWhenStdoutRedirected(t *testing.T) {
	prevTerm, prevOpen := stdoutIsTerminal, openTTY
	t.Cleanup(func() { stdoutIsTerminal, openTTY = prevTerm, prevOpen })

	opened := 0
	openTTY = func() (*os.File, error) {
		opened++
		return os.CreateTemp(t.TempDir(), "tty")
	}

	stdoutIsTerminal = func() bool { return true }
	opts, closeFn := programOptions(OutputStdout)
	closeFn()
	if len(opts) != 1 || opened != 0 {
		t.Fatalf("terminal stdout should keep default output")
	}

	stdoutIsTerminal = func() bool { return false }
	opts, closeFn = programOptions(OutputStdout)
	closeFn()
	if len(opts) != 2 || opened != 1 {
		t.Fatalf("redirected stdout should draw on the terminal, got %d options", len(opts))
	}

	opts, closeFn = programOptions(OutputBuffer)
	closeFn()
	if len(opts) != 1 || opened != 1 {
		t.Fatalf("tmux outputs leave stdout alone")
	}
}
