// Package completion turns a partial path into an ordered list of filesystem
// candidates.
//
// Generation is lazy: Generate returns an iter.Seq that inspects the
// filesystem each time it is ranged over. The first candidate describes the
// resolved input itself (an existing directory, an existing file, or a path
// that could be created); the rest are the entries of the directory that
// input lives in, in enumeration order. Every lookup is best effort: errors
// only ever shorten the sequence.
package completion

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-path/internal/logging/events"
)

type pathClass int

const (
	classDirectory pathClass = iota
	classFile
	classMissing
)

func (c pathClass) String() string {
	switch c {
	case classDirectory:
		return "directory"
	case classFile:
		return "file"
	default:
		return "missing"
	}
}

// resolution is the outcome of probing the resolved input path once.
type resolution struct {
	path    string
	base    string
	class   pathClass
	dirname string
}

// Generator produces candidates from an Environment and a FileSystem.
type Generator struct {
	env Environment
	fs  FileSystem
}

// New returns a generator. A nil fsys uses the real filesystem; a nil env
// resolves relative input against the home directory only.
func New(env Environment, fsys FileSystem) *Generator {
	if env == nil {
		env = OSEnvironment{}
	}
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Generator{env: env, fs: fsys}
}

// Generate yields the candidates for raw, restricted by filter.
func (g *Generator) Generate(raw string, filter Filter) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		res, ok := g.classify(raw)
		if !ok {
			return
		}
		switch res.class {
		case classDirectory:
			if filter.AllowsDirectories() && !yield(directorySelf(res.path, res.base)) {
				return
			}
		case classFile:
			if filter.AllowsFiles() && !yield(fileSelf(res.path, res.base)) {
				return
			}
		case classMissing:
			if filter.AllowsFiles() && !yield(createSelf(res.path, res.base)) {
				return
			}
			if err := g.fs.Access(res.dirname); err != nil {
				return
			}
		}
		g.list(res.dirname, filter, yield)
	}
}

// ListingDir reports the directory whose entries Generate would list for
// raw, or false when nothing would be listed.
func (g *Generator) ListingDir(raw string) (string, bool) {
	res, ok := g.classify(raw)
	if !ok {
		return "", false
	}
	if res.class == classMissing {
		if err := g.fs.Access(res.dirname); err != nil {
			return "", false
		}
	}
	return res.dirname, true
}

// Resolve returns the absolute path raw refers to.
func (g *Generator) Resolve(raw string) (string, bool) {
	base := BaseDir(g.env)
	if base == "" {
		return "", false
	}
	path := expandHome(raw, g.env.HomeDir())
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return path, true
}

func (g *Generator) classify(raw string) (resolution, bool) {
	path, ok := g.Resolve(raw)
	if !ok {
		return resolution{}, false
	}
	res := resolution{path: path, base: filepath.Base(path)}
	info, err := g.fs.Stat(path)
	switch {
	case err != nil:
		res.class = classMissing
		res.dirname = parentDir(path)
	case info.IsDir():
		res.class = classDirectory
		res.dirname = path
	default:
		res.class = classFile
		res.dirname = parentDir(path)
	}
	events.Completion.Classify(raw, path, res.class.String())
	return res, true
}

func (g *Generator) list(dirname string, filter Filter, yield func(Candidate) bool) {
	names, err := g.fs.ReadDirNames(dirname)
	if err != nil {
		return
	}
	for _, name := range names {
		full := filepath.Join(dirname, name)
		info, err := g.fs.Stat(full)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if filter.AllowsDirectories() && !yield(openDirectory(full, name)) {
				return
			}
			continue
		}
		if filter.AllowsFiles() && !yield(openFile(full, name)) {
			return
		}
	}
}

// Collect drains seq into a slice, stopping after limit items when limit is
// positive.
func Collect(seq iter.Seq[Candidate], limit int) []Candidate {
	var out []Candidate
	for c := range seq {
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// parentDir cleans first so a trailing separator does not make a path its
// own parent.
func parentDir(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

func expandHome(raw, home string) string {
	if home == "" || !strings.HasPrefix(raw, "~") {
		return raw
	}
	rest := raw[1:]
	if rest == "" {
		return home
	}
	if rest[0] != '/' && rest[0] != filepath.Separator {
		return raw
	}
	return filepath.Join(home, rest)
}
