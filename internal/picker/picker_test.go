package picker

import (
	"errors"
	"iter"
	"path/filepath"
	"testing"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/testutil"
)

// scriptSurface plays a fixed list of user actions synchronously from Show.
type scriptSurface struct {
	Dispatcher

	value       string
	items       []completion.Candidate
	selected    int
	multiSelect bool
	title       string
	placeholder string
	shown       bool
	hidden      bool
	disposed    bool

	script []func(*scriptSurface)
}

func (s *scriptSurface) Value() string { return s.value }

func (s *scriptSurface) SetValue(value string) {
	if value == s.value {
		return
	}
	s.value = value
	s.Emit(EventValueChanged)
}

func (s *scriptSurface) SetItems(items []completion.Candidate) {
	s.items = items
	s.selected = 0
}

func (s *scriptSurface) Items() []completion.Candidate { return s.items }

func (s *scriptSurface) SelectedItems() []completion.Candidate {
	if s.selected < 0 || s.selected >= len(s.items) {
		return nil
	}
	return []completion.Candidate{s.items[s.selected]}
}

func (s *scriptSurface) SetMultiSelect(enabled bool) { s.multiSelect = enabled }
func (s *scriptSurface) SetTitle(title string)       { s.title = title }
func (s *scriptSurface) SetPlaceholder(p string)     { s.placeholder = p }
func (s *scriptSurface) Dispose()                    { s.disposed = true }
func (s *scriptSurface) accept()                     { s.Emit(EventAccept) }
func (s *scriptSurface) selectIndex(i int)           { s.selected = i }
func (s *scriptSurface) typeValue(v string)          { s.SetValue(v) }
func (s *scriptSurface) liveHandlers() (n int) {
	for _, kind := range []EventKind{EventValueChanged, EventAccept, EventHidden} {
		n += s.Count(kind)
	}
	return n
}

func (s *scriptSurface) Show() {
	s.shown = true
	for _, step := range s.script {
		if s.hidden {
			return
		}
		step(s)
	}
}

func (s *scriptSurface) Hide() {
	if s.hidden {
		return
	}
	s.hidden = true
	s.Emit(EventHidden)
}

func factory(s *scriptSurface) SurfaceFactory {
	return func() Surface { return s }
}

func fixtureCompletion(t *testing.T) (string, func(string) iter.Seq[completion.Candidate]) {
	t.Helper()
	root := testutil.WriteTree(t, testutil.Tree{
		"src/":       "",
		"src/lib.go": "package src",
	})
	gen := completion.New(completion.StaticEnvironment{Root: root}, nil)
	return root, func(v string) iter.Seq[completion.Candidate] {
		return gen.Generate(v, completion.FilterAll)
	}
}

func TestRunDrillInAcceptsAfterAutoComplete(t *testing.T) {
	root, complete := fixtureCompletion(t)
	src := filepath.Join(root, "src")
	lib := filepath.Join(src, "lib.go")

	surface := &scriptSurface{multiSelect: true}
	var midValue string
	var midItems int
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue(src) },
		func(s *scriptSurface) { s.selectIndex(1) },
		func(s *scriptSurface) { s.accept() },
		func(s *scriptSurface) {
			midValue = s.value
			midItems = len(s.items)
		},
		func(s *scriptSurface) { s.accept() },
		func(s *scriptSurface) { t.Fatalf("surface should be hidden after the second accept") },
	}

	got, err := Run(factory(surface), Options{
		Completion: complete,
		OnInit: func(s Surface) {
			s.SetTitle("Pick a path")
			s.SetPlaceholder("path")
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != lib {
		t.Fatalf("expected %q, got %q", lib, got)
	}
	if midValue != lib {
		t.Fatalf("first accept should rewrite the value to the selection, got %q", midValue)
	}
	if midItems != 2 {
		t.Fatalf("rewritten value should regenerate candidates, got %d items", midItems)
	}
	if surface.multiSelect {
		t.Fatalf("session should force single selection")
	}
	if surface.title != "Pick a path" || surface.placeholder != "path" {
		t.Fatalf("OnInit not applied: %q / %q", surface.title, surface.placeholder)
	}
	if !surface.disposed {
		t.Fatalf("surface should be disposed")
	}
	if n := surface.liveHandlers(); n != 0 {
		t.Fatalf("expected all subscriptions released, %d left", n)
	}
}

func TestRunCancelled(t *testing.T) {
	_, complete := fixtureCompletion(t)
	surface := &scriptSurface{}
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue("src") },
		func(s *scriptSurface) { s.Hide() },
	}
	got, err := Run(factory(surface), Options{Completion: complete})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if got != "" {
		t.Fatalf("cancelled session should not return a value, got %q", got)
	}
	if !surface.disposed || surface.liveHandlers() != 0 {
		t.Fatalf("cancelled session should dispose and release (disposed=%v handlers=%d)", surface.disposed, surface.liveHandlers())
	}
}

func TestRunHonoursStopWhen(t *testing.T) {
	root, complete := fixtureCompletion(t)
	surface := &scriptSurface{}
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue("src") },
		func(s *scriptSurface) { s.selectIndex(1) },
		func(s *scriptSurface) { s.accept() },
	}
	calls := 0
	got, err := Run(factory(surface), Options{
		Completion: complete,
		StopWhen: func(Surface) bool {
			calls++
			return true
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the custom predicate to run once, ran %d times", calls)
	}
	if got != "src" {
		t.Fatalf("custom predicate should accept the typed value as-is, got %q (root %s)", got, root)
	}
}

func TestRunStopWhenCanRefuse(t *testing.T) {
	_, complete := fixtureCompletion(t)
	surface := &scriptSurface{}
	var afterAccept string
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue("src") },
		func(s *scriptSurface) { s.selectIndex(1) },
		func(s *scriptSurface) { s.accept() },
		func(s *scriptSurface) { afterAccept = s.value },
		func(s *scriptSurface) { s.Hide() },
	}
	_, err := Run(factory(surface), Options{
		Completion: complete,
		StopWhen:   func(Surface) bool { return false },
	})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if afterAccept != "src" {
		t.Fatalf("refusing predicate should leave the value alone, got %q", afterAccept)
	}
}

func TestRunReleasesSubscriptionsOnPanic(t *testing.T) {
	surface := &scriptSurface{}
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue("boom") },
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected the completion panic to propagate")
		}
		if n := surface.liveHandlers(); n != 0 {
			t.Fatalf("expected subscriptions released after panic, %d left", n)
		}
	}()
	_, _ = Run(factory(surface), Options{
		Completion: func(string) iter.Seq[completion.Candidate] {
			panic("completion failed")
		},
	})
}

func TestRunCapsItems(t *testing.T) {
	root := testutil.WriteTree(t, testutil.Tree{"a": "", "b": "", "c": "", "d": ""})
	gen := completion.New(completion.StaticEnvironment{Root: root}, nil)
	surface := &scriptSurface{}
	var seen int
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) { s.typeValue(root) },
		func(s *scriptSurface) { seen = len(s.items) },
		func(s *scriptSurface) { s.Hide() },
	}
	_, _ = Run(factory(surface), Options{
		Completion: func(v string) iter.Seq[completion.Candidate] { return gen.Generate(v, completion.FilterAll) },
		MaxItems:   2,
	})
	if seen != 2 {
		t.Fatalf("expected 2 items, got %d", seen)
	}
}

func TestSessionProducesOneOutcome(t *testing.T) {
	_, complete := fixtureCompletion(t)
	surface := &scriptSurface{}
	session := NewSession(surface, Options{Completion: complete})
	surface.script = []func(*scriptSurface){
		func(s *scriptSurface) {
			s.Emit(EventHidden)
			s.Emit(EventHidden)
			s.Emit(EventAccept)
		},
	}
	if _, err := session.Run(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if st := session.State(); st != StateDisposed {
		t.Fatalf("expected disposed state, got %s", st)
	}
}

func TestRunValidatesArguments(t *testing.T) {
	if _, err := Run(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil factory")
	}
	if _, err := Run(factory(&scriptSurface{}), Options{}); err == nil {
		t.Fatalf("expected error for missing completion")
	}
}

func TestDefaultFinishCondition(t *testing.T) {
	s := &scriptSurface{value: "/tmp"}
	if !DefaultFinishCondition(s) {
		t.Fatalf("empty selection should finish")
	}
	s.items = []completion.Candidate{{Label: "/tmp"}}
	if !DefaultFinishCondition(s) {
		t.Fatalf("matching selection should finish")
	}
	s.items = []completion.Candidate{{Label: "/tmp/x"}}
	if DefaultFinishCondition(s) {
		t.Fatalf("differing selection should not finish")
	}
	if s.value != "/tmp/x" {
		t.Fatalf("value should be rewritten to the selection, got %q", s.value)
	}
}
