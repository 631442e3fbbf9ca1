package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestDir_Default(t *testing.T) {
	t.Setenv("TACK_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}

	if runtime.GOOS != "windows" {
		if filepath.Base(dir) != "tack" {
			t.Errorf("Dir() = %q, want path ending in 'tack'", dir)
		}
	}
}

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("TACK_CONFIG_HOME", "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv("TACK_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	if got := Dir(); got != filepath.Join("/xdg/config", "tack") {
		t.Errorf("Dir() = %q, want %q", got, filepath.Join("/xdg/config", "tack"))
	}
}

func TestFilePath(t *testing.T) {
	t.Setenv("TACK_CONFIG_HOME", "/cfg")
	if got, want := FilePath(), filepath.Join("/cfg", "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}
