package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/tmux-popup-path/internal/app"
	"github.com/atomicstack/tmux-popup-path/internal/completion"
	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, if any.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig     = "TMUX_POPUP_PATH_CONFIG"
	envSocketPath = "TMUX_POPUP_PATH_SOCKET"
	envRoot       = "TMUX_POPUP_PATH_ROOT"
	envKind       = "TMUX_POPUP_PATH_KIND"
	envInitial    = "TMUX_POPUP_PATH_INITIAL"
	envTitle      = "TMUX_POPUP_PATH_TITLE"
	envOutput     = "TMUX_POPUP_PATH_OUTPUT"
	envWidth      = "TMUX_POPUP_PATH_WIDTH"
	envHeight     = "TMUX_POPUP_PATH_HEIGHT"
	envShowFooter = "TMUX_POPUP_PATH_FOOTER"
	envWatch      = "TMUX_POPUP_PATH_WATCH"
	envMaxItems   = "TMUX_POPUP_PATH_MAX_ITEMS"
	envTrace      = "TMUX_POPUP_PATH_TRACE"
	envLogFile    = "TMUX_POPUP_PATH_LOG_FILE"
)

// fileConfig mirrors the TOML file. Nil fields were not set.
type fileConfig struct {
	Socket   *string `toml:"socket"`
	Root     *string `toml:"root"`
	Kind     *string `toml:"kind"`
	Initial  *string `toml:"initial"`
	Title    *string `toml:"title"`
	Output   *string `toml:"output"`
	Width    *int    `toml:"width"`
	Height   *int    `toml:"height"`
	Footer   *bool   `toml:"footer"`
	Watch    *bool   `toml:"watch"`
	MaxItems *int    `toml:"max-items"`
	Trace    *bool   `toml:"trace"`
	LogFile  *string `toml:"log-file"`
}

// usageOutput receives the flag summary when help is requested.
var usageOutput io.Writer = os.Stderr

// Load parses configuration from the config file, environment variables and
// CLI arguments, in increasing priority.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	defaults, err := loadFile(path, explicit)
	if err != nil {
		return Config{}, err
	}
	file := ""
	if defaults != nil {
		file = path
	} else {
		defaults = &fileConfig{}
	}

	fs := flag.NewFlagSet("tmux-popup-path", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a TOML config file")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, str(defaults.Socket, "")), "path to the tmux socket (overrides environment detection)")
	root := fs.String("root", envOrDefault(env, envRoot, str(defaults.Root, "")), "directory relative input is resolved against (default: the pane's working directory)")
	kind := fs.String("kind", envOrDefault(env, envKind, str(defaults.Kind, "all")), "candidate kinds to offer: all, directory or file")
	initial := fs.String("initial", envOrDefault(env, envInitial, str(defaults.Initial, "")), "initial value of the prompt")
	title := fs.String("title", envOrDefault(env, envTitle, str(defaults.Title, "")), "header shown above the candidates")
	output := fs.String("output", envOrDefault(env, envOutput, str(defaults.Output, "stdout")), "where the picked path goes: stdout, send-keys or buffer")
	width := fs.Int("width", envOrInt(env, envWidth, num(defaults.Width, 0)), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, num(defaults.Height, 0)), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, boolean(defaults.Footer, false)), "enable footer hint row (disabled by default)")
	watch := fs.Bool("watch", envOrBool(env, envWatch, boolean(defaults.Watch, false)), "refresh candidates when the listed directory changes")
	maxItems := fs.Int("max-items", envOrInt(env, envMaxItems, num(defaults.MaxItems, 0)), "stop listing after this many candidates (0 is unlimited)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, boolean(defaults.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, str(defaults.LogFile, "")), "path to the log file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(usageOutput)
			fmt.Fprintln(usageOutput, "Usage: tmux-popup-path [flags] [initial]")
			fs.PrintDefaults()
		}
		return Config{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		*initial = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected at most one initial path, got %d", fs.NArg())
	}

	cfg := Config{
		App: app.Config{
			SocketPath: *socket,
			Root:       *root,
			Kind:       *kind,
			Initial:    *initial,
			Title:      *title,
			Output:     *output,
			Width:      *width,
			Height:     *height,
			ShowFooter: *footer,
			Watch:      *watch,
			MaxItems:   *maxItems,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: file,
		Flags: map[string]string{
			"config":   file,
			"socket":   *socket,
			"root":     *root,
			"kind":     *kind,
			"initial":  *initial,
			"title":    *title,
			"output":   *output,
			"width":    strconv.Itoa(*width),
			"height":   strconv.Itoa(*height),
			"footer":   strconv.FormatBool(*footer),
			"watch":    strconv.FormatBool(*watch),
			"maxItems": strconv.Itoa(*maxItems),
			"trace":    strconv.FormatBool(*trace),
			"logFile":  *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configPath finds the config file before the full flag set is built, since
// the file supplies that flag set's defaults.
func configPath(args []string, env map[string]string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v, ok := env[envConfig]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return defaultConfigPath(env), false
}

func defaultConfigPath(env map[string]string) string {
	dir := strings.TrimSpace(env["XDG_CONFIG_HOME"])
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "tmux-popup-path", "config.toml")
}

// loadFile returns nil when the default file does not exist. A file named
// explicitly must exist.
func loadFile(path string, explicit bool) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return &fc, nil
}

func str(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func num(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolean(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits. A help request exits cleanly
// once the usage has been printed.
func MustLoad() Config {
	cfg, err := Load()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects option values the application cannot act on.
func Validate(cfg Config) error {
	if _, err := completion.ParseFilter(cfg.App.Kind); err != nil {
		return err
	}
	if _, err := app.ParseOutput(cfg.App.Output); err != nil {
		return err
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.MaxItems < 0 {
		return fmt.Errorf("max-items must be >= 0 (got %d)", cfg.App.MaxItems)
	}
	return nil
}
