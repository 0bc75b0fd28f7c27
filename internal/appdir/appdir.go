// Package appdir provides constants and utilities for the .todo directory structure.
package appdir

import "path/filepath"

const (
	// Name is the application name used for OS config directories.
	Name = "todo"

	// Dir is the name of the per-user state directory.
	Dir = ".todo"

	// DefaultConfigFile is the config file name (inside Dir or the OS config dir).
	DefaultConfigFile = "todo.toml"

	// DefaultDBFile is the database file name, relative to the working directory.
	DefaultDBFile = "todos.db"

	// DefaultLogDir is the run log directory inside Dir.
	DefaultLogDir = "logs"
)

// ConfigPath returns the full path to the config file within a base directory
// (typically the user's home).
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), DefaultConfigFile)
}

// LogDirPath returns the run log directory within a base directory.
func LogDirPath(base string) string {
	return filepath.Join(DirPath(base), DefaultLogDir)
}

// DirPath returns the full path to the .todo directory within a base directory.
func DirPath(base string) string {
	if base == "." || base == "" {
		return Dir
	}
	return filepath.Join(base, Dir)
}
