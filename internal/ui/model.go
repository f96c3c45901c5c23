package ui

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/tmux-popup-path/internal/backend"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	"github.com/atomicstack/tmux-popup-path/internal/theme"
	uistate "github.com/atomicstack/tmux-popup-path/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	// Width and Height pin the viewport; zero follows the terminal.
	Width  int
	Height int
	// ShowFooter renders the key hint row.
	ShowFooter bool
	// Watcher enables live refresh of the listed directory.
	Watcher *backend.Watcher
	// ListingDir maps a typed value to the directory its candidates come
	// from. Required for live refresh.
	ListingDir func(value string) (string, bool)
	// ProgramOptions are passed to tea.NewProgram by Show.
	ProgramOptions []tea.ProgramOption
}

// Model is the Bubble Tea program behind the path picker. It implements
// picker.Surface; events are raised through the embedded Dispatcher.
type Model struct {
	picker.Dispatcher

	list *uistate.List

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	valueCursor      cursor.Model
	valueCursorDirty bool
	keys             keyMap

	watcher    *backend.Watcher
	listingDir func(string) (string, bool)

	handlers map[reflect.Type]msgHandler

	programOptions []tea.ProgramOption
	inUpdate       atomic.Bool
	quitting       atomic.Bool

	mu       sync.Mutex
	shown    bool
	running  bool
	disposed bool
	program  *tea.Program
	err      error
}

// NewModel builds an idle surface. Nothing is drawn until Show.
func NewModel(opts Options) *Model {
	m := &Model{
		list:           uistate.NewList(),
		showFooter:     opts.ShowFooter,
		keys:           defaultKeyMap(),
		watcher:        opts.Watcher,
		listingDir:     opts.ListingDir,
		programOptions: append([]tea.ProgramOption(nil), opts.ProgramOptions...),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Input != nil {
		c.TextStyle = styles.Input.Copy()
	}
	c.SetChar(" ")
	m.valueCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.quitting.Load() {
		return tea.Quit
	}
	cmds := []tea.Cmd{}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	if cmd := m.valueCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.inUpdate.Store(true)
	defer m.inUpdate.Store(false)

	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateValueCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.quitting.Load() {
		return tea.Quit
	}
	if m.valueCursorDirty {
		m.valueCursorDirty = false
		m.valueCursor.Blink = false
		if cmd := m.valueCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// disableBlink keeps the input cursor solid; headless drivers cannot wait
// on blink timers.
func (m *Model) disableBlink() {
	m.valueCursor.SetMode(cursor.CursorStatic)
}

func (m *Model) syncViewport() {
	m.list.ScrollTo(m.maxVisibleItems())
}
