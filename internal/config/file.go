package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/tack/internal/calendar"
	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/launcher"
	"github.com/gorewood/tack/internal/location"
	"github.com/gorewood/tack/internal/logging"
	"github.com/gorewood/tack/internal/sink"
)

// Expand configures template expansion.
type Expand struct {
	// Policy is "all" or "first".
	Policy string `yaml:"policy" env:"TACK_POLICY"`
	// Vars are preset placeholder values applied to every expansion.
	Vars map[string]string `yaml:"vars,omitempty"`
}

// File is the settings file, with environment overrides applied.
type File struct {
	LogLevel string          `yaml:"log_level" env:"TACK_LOG_LEVEL"`
	Expand   Expand          `yaml:"expand"`
	Location location.Config `yaml:"location"`
	Sink     sink.Config     `yaml:"sink"`
	Launcher launcher.Config `yaml:"launcher"`
	Calendar calendar.Config `yaml:"calendar"`
}

// Default returns the settings used when no file exists.
func Default() *File {
	outbox := ""
	if dir := Dir(); dir != "" {
		outbox = filepath.Join(dir, "outbox")
	}
	return &File{
		LogLevel: logging.DefaultLevel,
		Expand:   Expand{Policy: expand.ReplaceAll.String()},
		Location: location.DefaultConfig(),
		Sink:     sink.Config{Kind: sink.KindOmniFocus, Outbox: outbox, Confirm: true},
		Launcher: launcher.DefaultConfig(),
		Calendar: calendar.DefaultConfig(),
	}
}

// Load reads settings from path over the defaults, then applies TACK_*
// environment overrides and validates the result.
//
// An empty path means FilePath(); a missing default file is not an error,
// but a missing explicit path is.
func Load(path string) (*File, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FilePath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every section and reports all problems together.
func (f *File) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(f.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := expand.ParsePolicy(f.Expand.Policy); err != nil {
		errs = append(errs, fmt.Errorf("expand.policy: %w", err))
	}
	for name := range f.Expand.Vars {
		if expand.IsReserved(name) {
			errs = append(errs, fmt.Errorf("expand.vars: %s is a built-in and cannot be preset here", name))
		}
	}
	if err := f.Location.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Sink.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Launcher.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Calendar.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Policy returns the parsed substitution policy.
func (f *File) Policy() expand.Policy {
	p, _ := expand.ParsePolicy(f.Expand.Policy)
	return p
}

// Marshal renders the settings as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteDefault writes the default settings to path unless a file is
// already there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := Default().Marshal()
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
