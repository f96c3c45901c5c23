package tmux

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeClient struct {
	displayTarget string
	displayFormat string
	displayOut    string
	displayErr    error
	commands      [][]string
	commandErr    error
	closed        int
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	f.displayTarget = target
	f.displayFormat = format
	return f.displayOut, f.displayErr
}

func (f *fakeClient) Command(parts ...string) (string, error) {
	f.commands = append(f.commands, append([]string(nil), parts...))
	return "", f.commandErr
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func withFakeClient(t *testing.T, fake *fakeClient) *[]string {
	t.Helper()
	sockets := []string{}
	prev := newTmux
	newTmux = func(socketPath string) (tmuxClient, error) {
		sockets = append(sockets, socketPath)
		return fake, nil
	}
	t.Cleanup(func() { newTmux = prev })
	return &sockets
}

func TestResolveSocketPathPrefersFlag(t *testing.T) {
	t.Setenv("TMUX", "/tmp/env.sock,123,0")
	got, err := ResolveSocketPath("/tmp/flag.sock")
	if err != nil || got != "/tmp/flag.sock" {
		t.Fatalf("expected flag socket, got %q (%v)", got, err)
	}
}

func TestResolveSocketPathFromTmuxEnv(t *testing.T) {
	t.Setenv("TMUX", "/tmp/env.sock,123,0")
	got, err := ResolveSocketPath("")
	if err != nil || got != "/tmp/env.sock" {
		t.Fatalf("expected socket from $TMUX, got %q (%v)", got, err)
	}
}

func TestResolveSocketPathDefault(t *testing.T) {
	t.Setenv("TMUX", "")
	dir := t.TempDir()
	t.Setenv("TMUX_TMPDIR", dir)
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("ResolveSocketPath: %v", err)
	}
	if filepath.Dir(filepath.Dir(got)) != dir || filepath.Base(got) != "default" {
		t.Fatalf("unexpected default socket %q", got)
	}
}

func TestPaneCurrentPathUsesOriginatingPane(t *testing.T) {
	t.Setenv("TMUX_PANE", "%7")
	fake := &fakeClient{displayOut: "/home/me/project\n"}
	sockets := withFakeClient(t, fake)

	got, err := PaneCurrentPath("/tmp/s", "")
	if err != nil {
		t.Fatalf("PaneCurrentPath: %v", err)
	}
	if got != "/home/me/project" {
		t.Fatalf("expected trimmed path, got %q", got)
	}
	if fake.displayTarget != "%7" || fake.displayFormat != "#{pane_current_path}" {
		t.Fatalf("unexpected display-message %q %q", fake.displayTarget, fake.displayFormat)
	}
	if diff := cmp.Diff([]string{"/tmp/s"}, *sockets); diff != "" {
		t.Fatalf("socket mismatch (-want +got):\n%s", diff)
	}
	if fake.closed != 1 {
		t.Fatalf("expected client closed once, got %d", fake.closed)
	}
}

func TestPaneCurrentPathErrors(t *testing.T) {
	t.Setenv("TMUX_PANE", "")
	fake := &fakeClient{}
	withFakeClient(t, fake)
	if _, err := PaneCurrentPath("", ""); !errors.Is(err, ErrNoPane) {
		t.Fatalf("expected ErrNoPane, got %v", err)
	}

	if _, err := PaneCurrentPath("", "%1"); err == nil {
		t.Fatalf("expected error for empty path")
	}

	fake.displayErr = errors.New("no server")
	if _, err := PaneCurrentPath("", "%1"); err == nil {
		t.Fatalf("expected display-message failure to surface")
	}
}

func TestSendKeysTypesLiterally(t *testing.T) {
	t.Setenv("TMUX_PANE", "%3")
	fake := &fakeClient{}
	withFakeClient(t, fake)

	if err := SendKeys("", "", "/tmp/my dir"); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	if err := SendKeys("", "%9", "-rf"); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	want := [][]string{
		{"send-keys", "-t", "%3", "-l", "--", "/tmp/my dir"},
		{"send-keys", "-t", "%9", "-l", "--", "-rf"},
	}
	if diff := cmp.Diff(want, fake.commands); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestSendKeysWithoutPane(t *testing.T) {
	t.Setenv("TMUX_PANE", "")
	fake := &fakeClient{}
	withFakeClient(t, fake)
	if err := SendKeys("", "", "/tmp"); !errors.Is(err, ErrNoPane) {
		t.Fatalf("expected ErrNoPane, got %v", err)
	}
	if len(fake.commands) != 0 {
		t.Fatalf("no command should be sent, got %v", fake.commands)
	}
}

func TestSetBuffer(t *testing.T) {
	fake := &fakeClient{}
	withFakeClient(t, fake)
	if err := SetBuffer("/tmp/s", "/srv/data"); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	if diff := cmp.Diff([][]string{{"set-buffer", "--", "/srv/data"}}, fake.commands); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}

	fake.commandErr = errors.New("boom")
	if err := SetBuffer("", "/x"); err == nil {
		t.Fatalf("expected command failure to surface")
	}
}
