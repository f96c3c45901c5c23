package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Tree describes a filesystem fixture. Keys are slash separated paths
// relative to the fixture root; a trailing slash marks a directory, anything
// else is a file holding the mapped content.
type Tree map[string]string

// WriteTree materialises tree under a fresh temporary directory and returns
// its path.
func WriteTree(t *testing.T, tree Tree) string {
	t.Helper()
	root := t.TempDir()
	WriteTreeAt(t, root, tree)
	return root
}

// WriteTreeAt materialises tree under root.
func WriteTreeAt(t *testing.T, root string, tree Tree) {
	t.Helper()
	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		path := filepath.Join(root, filepath.FromSlash(key))
		if strings.HasSuffix(key, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", key, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir parent of %s: %v", key, err)
		}
		if err := os.WriteFile(path, []byte(tree[key]), 0o644); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}
}

// Entries returns the names directly under dir in enumeration order, which
// is the order the generator lists them in.
func Entries(t *testing.T, dir string) []string {
	t.Helper()
	f, err := os.Open(dir)
	if err != nil {
		t.Fatalf("open %s: %v", dir, err)
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		t.Fatalf("readdirnames %s: %v", dir, err)
	}
	return names
}
