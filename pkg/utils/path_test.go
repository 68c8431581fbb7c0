package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetCleanPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "absolute", in: "/tmp/a/../b", want: "/tmp/b"},
		{name: "tilde", in: "~/.storefront", want: filepath.Join(home, ".storefront")},
		{name: "home var", in: "$HOME/.storefront", want: filepath.Join(home, ".storefront")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetCleanPath(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetCleanPathEmpty(t *testing.T) {
	if _, err := GetCleanPath(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
