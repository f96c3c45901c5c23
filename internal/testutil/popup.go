package testutil

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Build compiles the tmux-popup-path command and returns the binary path.
func Build(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "tmux-popup-path")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = moduleRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+filepath.Join(dir, "cache"))
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build: %v\n%s", err, out)
	}
	return bin
}

// Popup is the picker running in a session of its own.
type Popup struct {
	srv  *Server
	Pane string
}

// Launch starts bin with args in a new 80x24 session named name, pointed
// at this server and started in Root.
func (s *Server) Launch(t *testing.T, bin, name string, args ...string) *Popup {
	t.Helper()
	argv := append([]string{"new-session", "-d", "-x", "80", "-y", "24", "-s", name, "-c", s.Root,
		bin, "-socket", s.Socket}, args...)
	if err := s.Command(argv...).Run(); err != nil {
		t.Fatalf("launch %s: %v", name, err)
	}
	t.Cleanup(func() { _ = s.Command("kill-session", "-t", name).Run() })
	return &Popup{srv: s, Pane: name + ":0.0"}
}

// Press sends tmux key names to the popup.
func (p *Popup) Press(t *testing.T, keys ...string) {
	t.Helper()
	if err := p.srv.Command(append([]string{"send-keys", "-t", p.Pane}, keys...)...).Run(); err != nil {
		t.Fatalf("send-keys %v: %v", keys, err)
	}
}

// WaitFor polls the popup until its screen contains want and returns the
// screen. An exit before that fails the test.
func (p *Popup) WaitFor(t *testing.T, ctx context.Context, want string) string {
	t.Helper()
	var screen string
	for {
		if code, done := p.exitStatus(); done {
			t.Fatalf("popup exited with %s before showing %q:\n%s", code, want, screen)
		}
		out, err := p.srv.Capture(p.Pane)
		switch {
		case err == nil:
			screen = out
			if strings.Contains(out, want) {
				return out
			}
		case !errors.Is(err, ErrPaneGone):
			t.Fatalf("capture: %v", err)
		}
		select {
		case <-ctx.Done():
			t.Fatalf("%q never appeared: %v\n%s", want, ctx.Err(), screen)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// WaitExit blocks until the popup's command exits and returns its status.
func (p *Popup) WaitExit(t *testing.T, ctx context.Context) string {
	t.Helper()
	for {
		if code, done := p.exitStatus(); done {
			return code
		}
		select {
		case <-ctx.Done():
			t.Fatalf("popup still running: %v", ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (p *Popup) exitStatus() (string, bool) {
	out, err := p.srv.Output("display-message", "-p", "-t", p.Pane, "#{pane_dead} #{pane_dead_status}")
	if err != nil {
		return "", false
	}
	dead, code, _ := strings.Cut(out, " ")
	return code, dead == "1"
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		if filepath.Dir(d) == d {
			return dir
		}
	}
}
