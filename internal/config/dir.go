// Package config resolves tack's configuration directory and settings file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the tack configuration directory.
//
// Resolution:
//   - $TACK_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/tack if set (respects XDG on any platform)
//   - %AppData%/tack on Windows
//   - ~/.config/tack on macOS and Linux
func Dir() string {
	if dir := os.Getenv("TACK_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tack")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "tack")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tack")
}

// FilePath returns the default settings file location, or "" when no
// configuration directory can be determined.
func FilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
