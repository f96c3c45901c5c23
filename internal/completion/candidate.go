package completion

import (
	"fmt"
	"strings"
)

// Kind identifies what a candidate represents.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
	KindCreate
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindCreate:
		return "create"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Candidate is one suggested completion. Label is the absolute path the
// candidate stands for and doubles as the value applied on selection.
type Candidate struct {
	Label  string
	Detail string
	Kind   Kind
}

// Filter restricts which candidate kinds a generator emits.
type Filter int

const (
	FilterAll Filter = iota
	FilterDirectory
	FilterFile
)

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterDirectory:
		return "directory"
	case FilterFile:
		return "file"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// AllowsDirectories reports whether directory candidates may be emitted.
func (f Filter) AllowsDirectories() bool {
	return f == FilterAll || f == FilterDirectory
}

// AllowsFiles reports whether file and create candidates may be emitted.
func (f Filter) AllowsFiles() bool {
	return f == FilterAll || f == FilterFile
}

// ParseFilter converts a user-supplied name into a Filter.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return FilterAll, nil
	case "directory", "directories", "dir", "d":
		return FilterDirectory, nil
	case "file", "files", "f":
		return FilterFile, nil
	default:
		return FilterAll, fmt.Errorf("unknown completion kind %q (want all, directory or file)", name)
	}
}

func directorySelf(path, base string) Candidate {
	return Candidate{Label: path, Detail: "Target directory: " + base + "/", Kind: KindDirectory}
}

func fileSelf(path, base string) Candidate {
	return Candidate{Label: path, Detail: "Target file: " + base, Kind: KindFile}
}

func createSelf(path, base string) Candidate {
	return Candidate{Label: path, Detail: "Create/Rename to: " + base, Kind: KindCreate}
}

func openDirectory(path, name string) Candidate {
	return Candidate{Label: path, Detail: "Open " + name + "/", Kind: KindDirectory}
}

func openFile(path, name string) Candidate {
	return Candidate{Label: path, Detail: "Open " + name, Kind: KindFile}
}
