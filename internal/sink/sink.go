package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// Kind names accepted in configuration.
const (
	KindOmniFocus = "omnifocus"
	KindURL       = "url"
	KindFile      = "file"
	KindStdout    = "stdout"
)

// ErrDeclined is returned when the user declines delivery.
var ErrDeclined = errors.New("delivery declined")

// Sink delivers a destination and its expanded text.
type Sink interface {
	Deliver(ctx context.Context, destination, text string) error
}

// Config selects the sink.
type Config struct {
	Kind string `yaml:"kind" env:"TACK_SINK"`
	// Outbox is the root directory of the file sink.
	Outbox string `yaml:"outbox" env:"TACK_OUTBOX"`
	// Confirm asks before delivery when a terminal is attached.
	Confirm bool `yaml:"confirm" env:"TACK_CONFIRM"`
}

// Validate checks the sink kind and its required settings.
func (c Config) Validate() error {
	switch c.Kind {
	case KindOmniFocus, KindURL, KindStdout:
		return nil
	case KindFile:
		if c.Outbox == "" {
			return errors.New("sink.outbox is required for the file sink")
		}
		return nil
	default:
		return fmt.Errorf("unknown sink %q (want omnifocus, url, file or stdout)", c.Kind)
	}
}

// Deps are the collaborators a sink may need.
type Deps struct {
	Out    io.Writer
	Opener Opener
	Now    func() time.Time
	Logger *zap.Logger
}

// New builds the configured sink.
func New(cfg Config, deps Deps) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}

	switch cfg.Kind {
	case KindOmniFocus:
		opener := deps.Opener
		if opener == nil {
			opener = NewExecOpener()
		}
		return NewOmniFocus(opener, logger), nil
	case KindURL:
		return NewURLWriter(out), nil
	case KindFile:
		return NewFileOutbox(cfg.Outbox, deps.Now, logger), nil
	default:
		return NewWriter(out), nil
	}
}
