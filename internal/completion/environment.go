package completion

import (
	"os"
	"strings"
)

// Environment resolves the directories relative input is anchored to.
// Empty strings mean "not available".
type Environment interface {
	WorkspaceRoot() string
	HomeDir() string
}

// OSEnvironment uses an explicit workspace root and the current user's home
// directory.
type OSEnvironment struct {
	Root string
}

func (e OSEnvironment) WorkspaceRoot() string {
	return strings.TrimSpace(e.Root)
}

func (e OSEnvironment) HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// StaticEnvironment returns fixed values; handy for tests and callers that
// already resolved both directories.
type StaticEnvironment struct {
	Root string
	Home string
}

func (e StaticEnvironment) WorkspaceRoot() string { return e.Root }
func (e StaticEnvironment) HomeDir() string       { return e.Home }

// BaseDir returns the workspace root, falling back to the home directory.
func BaseDir(env Environment) string {
	if env == nil {
		return ""
	}
	if root := env.WorkspaceRoot(); root != "" {
		return root
	}
	return env.HomeDir()
}
