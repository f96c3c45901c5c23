package app

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-path/internal/backend"
	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/atomicstack/tmux-popup-path/internal/logging"
	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
	"github.com/atomicstack/tmux-popup-path/internal/picker"
	"github.com/atomicstack/tmux-popup-path/internal/tmux"
	"github.com/atomicstack/tmux-popup-path/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath string
	Root       string
	Kind       string
	Initial    string
	Title      string
	Output     string
	Width      int
	Height     int
	ShowFooter bool
	Watch      bool
	MaxItems   int
}

var (
	runPicker       = picker.Run
	newSurface      = func(opts ui.Options) picker.Surface { return ui.NewModel(opts) }
	paneCurrentPath = tmux.PaneCurrentPath
	currentPane     = tmux.CurrentPane
	getwd           = os.Getwd
)

// Run shows the picker and delivers the accepted path. It returns the path,
// or picker.ErrCancelled when the user backed out.
func Run(cfg Config) (string, error) {
	filter, err := completion.ParseFilter(cfg.Kind)
	if err != nil {
		return "", err
	}
	output, err := ParseOutput(cfg.Output)
	if err != nil {
		return "", err
	}
	socketPath, socketErr := tmux.ResolveSocketPath(cfg.SocketPath)
	if output != OutputStdout && socketErr != nil {
		return "", fmt.Errorf("resolve socket path: %w", socketErr)
	}

	root := resolveRoot(cfg.Root, socketPath)
	gen := completion.New(completion.OSEnvironment{Root: root}, nil)

	var watcher *backend.Watcher
	if cfg.Watch {
		watcher, err = backend.NewWatcher(backend.DefaultDebounce, backend.DefaultMinInterval)
		if err != nil {
			logging.Errorf("live refresh disabled: %v", err)
			watcher = nil
		} else {
			defer watcher.Stop()
		}
	}

	progOpts, closeTTY := programOptions(output)
	defer closeTTY()

	uiOpts := ui.Options{
		Width:          cfg.Width,
		Height:         cfg.Height,
		ShowFooter:     cfg.ShowFooter,
		Watcher:        watcher,
		ListingDir:     gen.ListingDir,
		ProgramOptions: progOpts,
	}
	initial := initialValue(cfg.Initial, root)
	generate := func(value string) iter.Seq[completion.Candidate] {
		return gen.Generate(value, filter)
	}
	var surface picker.Surface
	value, err := runPicker(func() picker.Surface {
		surface = newSurface(uiOpts)
		return surface
	}, picker.Options{
		Completion: generate,
		OnInit: func(s picker.Surface) {
			s.SetTitle(title(cfg.Title, filter))
			s.SetPlaceholder(placeholder(filter))
			s.SetValue(initial)
			s.SetItems(completion.Collect(generate(initial), cfg.MaxItems))
		},
		MaxItems: cfg.MaxItems,
	})
	if err != nil {
		// a program that died also hides the surface, which reads as a cancel
		if errors.Is(err, picker.ErrCancelled) {
			if failed := surfaceErr(surface); failed != nil {
				return "", fmt.Errorf("run picker: %w", failed)
			}
		}
		return "", err
	}
	if err := deliver(output, socketPath, value); err != nil {
		return value, err
	}
	return value, nil
}

// surfaceErr reports why the surface's program stopped, when it can say.
func surfaceErr(s picker.Surface) error {
	f, ok := s.(interface{ Err() error })
	if !ok {
		return nil
	}
	return f.Err()
}

// resolveRoot anchors relative input: an explicit root, then the working
// directory of the pane the popup was opened from, then the process working
// directory. An empty result makes the generator fall back to $HOME.
func resolveRoot(flagRoot, socketPath string) string {
	if r := strings.TrimSpace(flagRoot); r != "" {
		if abs, err := filepath.Abs(expandHome(r)); err == nil {
			r = abs
		}
		events.App.Root(r, "flag")
		return r
	}
	if currentPane() != "" {
		path, err := paneCurrentPath(socketPath, "")
		if err == nil {
			events.App.Root(path, "tmux")
			return path
		}
		logging.Errorf("pane path lookup failed: %v", err)
	}
	if wd, err := getwd(); err == nil && wd != "" {
		events.App.Root(wd, "cwd")
		return wd
	}
	events.App.Root("", "home")
	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// initialValue starts the prompt inside root so the first listing is the
// root's entries and typing extends it.
func initialValue(initial, root string) string {
	if initial != "" || root == "" {
		return initial
	}
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root
	}
	return root + string(filepath.Separator)
}

func title(custom string, filter completion.Filter) string {
	if t := strings.TrimSpace(custom); t != "" {
		return t
	}
	switch filter {
	case completion.FilterDirectory:
		return "Select directory"
	case completion.FilterFile:
		return "Select file"
	default:
		return "Select path"
	}
}

func placeholder(filter completion.Filter) string {
	switch filter {
	case completion.FilterDirectory:
		return "type a directory"
	case completion.FilterFile:
		return "type a file"
	default:
		return "type a path"
	}
}
