package appdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir in cwd", DirPath(""), ".todo"},
		{"dir dot", DirPath("."), ".todo"},
		{"dir in home", DirPath("/home/u"), filepath.Join("/home/u", ".todo")},
		{"config in home", ConfigPath("/home/u"), filepath.Join("/home/u", ".todo", "todo.toml")},
		{"logs in home", LogDirPath("/home/u"), filepath.Join("/home/u", ".todo", "logs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
