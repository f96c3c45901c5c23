package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// ErrPaneGone is returned by Capture when the target pane does not exist.
var ErrPaneGone = errors.New("tmux pane gone")

// Session is the session every Server starts with.
const Session = "home"

// Server is a throwaway tmux server on its own socket. Its first pane is
// started in Root, so pane_current_path has a known answer, and panes are
// kept after their command exits so the exit status can be read back.
type Server struct {
	Socket string
	Root   string
	logDir string
}

// StartServer boots a server rooted at root and stops it when the test
// ends. The test is skipped when tmux is missing or will not start.
func StartServer(t *testing.T, root string) *Server {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	// socket paths are length limited, so stay out of the long test temp dir
	dir, err := os.MkdirTemp("/tmp", "popup-path-*")
	if err != nil {
		t.Fatalf("tmux temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	s := &Server{Socket: filepath.Join(dir, "sock"), Root: root, logDir: dir}
	if err := s.Command("-f", "/dev/null", "-vv", "new-session", "-d", "-s", Session, "-c", root, "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: tmux server did not start: %v", err)
	}
	t.Cleanup(func() { s.stop(t) })
	if err := s.Command("set-option", "-g", "remain-on-exit", "on").Run(); err != nil {
		t.Fatalf("remain-on-exit: %v", err)
	}
	return s
}

// Pane is the first pane of the starting session.
func (s *Server) Pane() string {
	return Session + ":0.0"
}

// Command prepares a tmux client invocation against this server. The
// caller's own tmux session, if any, is hidden from it.
func (s *Server) Command(args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", s.Socket}, args...)...)
	cmd.Dir = s.logDir
	env := []string{"TMUX=", "TMUX_PANE=", "TMUX_TMPDIR=" + s.logDir}
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "TMUX") {
			env = append(env, entry)
		}
	}
	cmd.Env = env
	return cmd
}

// Output runs a tmux command and returns its trimmed stdout.
func (s *Server) Output(args ...string) (string, error) {
	out, err := s.Command(args...).Output()
	return strings.TrimRight(string(out), "\n"), err
}

// Capture returns the visible text of target.
func (s *Server) Capture(target string) (string, error) {
	out, err := s.Command("capture-pane", "-p", "-t", target).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrPaneGone
		}
		return "", fmt.Errorf("capture %s: %w", target, err)
	}
	return string(out), nil
}

// Buffer returns the top paste buffer verbatim.
func (s *Server) Buffer() (string, error) {
	out, err := s.Command("show-buffer").Output()
	return string(out), err
}

func (s *Server) stop(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := killServer(ctx, s.Socket); err != nil {
		t.Logf("control-mode kill of %s failed: %v", s.Socket, err)
		_ = s.Command("kill-server").Run()
	}
	logs, _ := filepath.Glob(filepath.Join(s.logDir, "tmux-server-*.log"))
	for _, path := range logs {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			t.Errorf("tmux server crashed; see %s", path)
		}
	}
}

func killServer(ctx context.Context, socket string) error {
	client, err := gotmux.NewTmuxWithOptions(socket, gotmux.WithContext(ctx))
	if err != nil {
		return err
	}
	defer client.Close()
	return client.KillServer()
}
