// Package picker runs one interactive completion session: it keeps a
// Surface's candidates in step with the typed value and decides when an
// accept ends the session.
package picker

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
)

// ErrCancelled is returned when the surface is hidden without an accepted
// value.
var ErrCancelled = errors.New("picker: cancelled")

// Options configures a session.
type Options struct {
	// Completion produces the candidates for a typed value. Required.
	Completion func(value string) iter.Seq[completion.Candidate]
	// OnInit runs once before any event is wired.
	OnInit func(Surface)
	// StopWhen decides whether an accept ends the session. Defaults to
	// DefaultFinishCondition.
	StopWhen func(Surface) bool
	// MaxItems caps each regeneration; zero means unlimited.
	MaxItems int
}

// State is a session's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateShown
	StateRefining
	StateAccepted
	StateCancelled
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShown:
		return "shown"
	case StateRefining:
		return "refining"
	case StateAccepted:
		return "accepted"
	case StateCancelled:
		return "cancelled"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type outcome struct {
	value string
	err   error
}

// Session binds one surface to one completion function.
type Session struct {
	surface Surface
	opts    Options
	stop    func(Surface) bool

	mu       sync.Mutex
	state    State
	accepted bool
	value    string
	resolved bool

	done chan outcome
	subs []Subscription
}

// NewSession prepares a session on surface. Nothing is shown until Run.
func NewSession(surface Surface, opts Options) *Session {
	stop := opts.StopWhen
	if stop == nil {
		stop = DefaultFinishCondition
	}
	return &Session{
		surface: surface,
		opts:    opts,
		stop:    stop,
		done:    make(chan outcome, 1),
	}
}

// Run creates a surface with newSurface and blocks until the session ends.
// It returns the accepted value, or ErrCancelled.
func Run(newSurface SurfaceFactory, opts Options) (string, error) {
	if newSurface == nil {
		return "", errors.New("picker: no surface factory")
	}
	if opts.Completion == nil {
		return "", errors.New("picker: no completion function")
	}
	surface := newSurface()
	if surface == nil {
		return "", errors.New("picker: surface factory returned nil")
	}
	return NewSession(surface, opts).Run()
}

// Run shows the surface and waits for the outcome. Every subscription the
// session made is closed before Run returns, including when a handler
// panics.
func (s *Session) Run() (string, error) {
	if s.opts.Completion == nil {
		return "", errors.New("picker: no completion function")
	}
	s.surface.SetMultiSelect(false)
	if s.opts.OnInit != nil {
		s.opts.OnInit(s.surface)
	}

	handlers := map[EventKind]func(){
		EventValueChanged: s.refine,
		EventAccept:       s.accept,
		EventHidden:       s.hidden,
	}
	defer s.release()
	for _, kind := range []EventKind{EventValueChanged, EventAccept, EventHidden} {
		s.subs = append(s.subs, s.surface.Subscribe(kind, handlers[kind]))
	}

	s.transition(StateShown)
	events.Session.Show(s.surface.Value())
	s.surface.Show()

	out := <-s.done
	return out.value, out.err
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	if from != to {
		events.Session.Transition(from.String(), to.String())
	}
}

func (s *Session) refine() {
	if s.isResolved() {
		return
	}
	value := s.surface.Value()
	items := completion.Collect(s.opts.Completion(value), s.opts.MaxItems)
	s.surface.SetItems(items)
	events.Completion.Regenerate(value, len(items))
	if st := s.State(); st == StateShown || st == StateRefining {
		s.transition(StateRefining)
	}
}

func (s *Session) accept() {
	if s.isResolved() {
		return
	}
	before := s.surface.Value()
	if !s.stop(s.surface) {
		events.Session.Refine(before, s.surface.Value())
		return
	}
	value := s.surface.Value()
	s.mu.Lock()
	s.accepted = true
	s.value = value
	s.mu.Unlock()
	s.transition(StateAccepted)
	events.Session.Accept(value)
	s.surface.Hide()
}

func (s *Session) hidden() {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	accepted, value := s.accepted, s.value
	s.mu.Unlock()

	events.Session.Hide(accepted)
	if !accepted {
		s.transition(StateCancelled)
	}
	s.surface.Dispose()
	s.transition(StateDisposed)

	if accepted {
		events.Session.Outcome(value, events.SessionReasonAccepted)
		s.done <- outcome{value: value}
		return
	}
	events.Session.Outcome("", events.SessionReasonCancelled)
	s.done <- outcome{err: ErrCancelled}
}

func (s *Session) isResolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

func (s *Session) release() {
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}

// DefaultFinishCondition accepts when nothing is selected or the top
// selection already equals the typed value. Otherwise it copies the top
// selection's label into the value and asks for another accept.
func DefaultFinishCondition(s Surface) bool {
	selected := s.SelectedItems()
	if len(selected) == 0 || selected[0].Label == s.Value() {
		return true
	}
	s.SetValue(selected[0].Label)
	return false
}
