package completion

import (
	"io/fs"
	"os"
)

// FileSystem is the set of lookups the generator needs. Implementations may
// return any error; the generator treats every error as "not usable".
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	// ReadDirNames lists entry names in enumeration order without sorting.
	ReadDirNames(name string) ([]string, error)
	Access(name string) error
}

// OSFileSystem reads the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) ReadDirNames(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (OSFileSystem) Access(name string) error {
	_, err := os.Stat(name)
	return err
}
