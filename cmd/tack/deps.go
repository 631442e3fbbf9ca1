package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/config"
	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/location"
	"github.com/gorewood/tack/internal/logging"
	"github.com/gorewood/tack/internal/output"
	"github.com/gorewood/tack/internal/prompter"
	"github.com/gorewood/tack/internal/sink"
	"github.com/gorewood/tack/internal/templates"
)

// deps are the collaborators a command runs against. Tests inject the
// fields they care about; nil fields get real implementations.
type deps struct {
	Settings *config.File
	Now      func() time.Time
	Stdin    io.Reader
	Prompter prompter.Interactive
	Locator  expand.Locator
	Opener   sink.Opener
	Library  *templates.Library
	Logger   *zap.Logger
}

// resolveDeps fills nil fields of injected. Settings come from --config,
// with --log-level overriding the configured level.
func resolveDeps(cmd *cobra.Command, injected *deps) (*deps, error) {
	d := deps{}
	if injected != nil {
		d = *injected
	}

	if d.Settings == nil {
		settings, err := config.Load(persistentFlag(cmd, "config"))
		if err != nil {
			return nil, output.NewUserErrorWithCause(err.Error(), err)
		}
		d.Settings = settings
	}
	if d.Logger == nil {
		level := d.Settings.LogLevel
		if flag := persistentFlag(cmd, "log-level"); flag != "" {
			level = flag
		}
		logger, err := logging.New(level, cmd.ErrOrStderr())
		if err != nil {
			return nil, output.NewUserErrorWithCause(err.Error(), err)
		}
		d.Logger = logger
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Stdin == nil {
		d.Stdin = cmd.InOrStdin()
	}
	if d.Library == nil {
		d.Library = templates.NewLibrary()
	}
	if d.Opener == nil {
		d.Opener = sink.NewExecOpener()
	}
	if d.Locator == nil {
		locator, err := location.New(d.Settings.Location, nil)
		if err != nil {
			return nil, output.NewUserErrorWithCause(err.Error(), err)
		}
		d.Locator = locator
	}
	return &d, nil
}
