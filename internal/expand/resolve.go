package expand

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Reserved placeholder names with built-in values.
const (
	NameDate  = "DATE"
	NameTime  = "TIME"
	NameDay   = "DAY"
	NameMonth = "MONTH"
	NameHere  = "HERE"
)

// Built-in value layouts.
const (
	DateLayout  = "02 January 2006"
	TimeLayout  = "15:04"
	DayLayout   = "Monday"
	MonthLayout = "January"
)

// Coordinates is a device position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String formats the coordinates as "(lat,lon)" using the shortest
// representation of each value.
func (c Coordinates) String() string {
	return "(" + strconv.FormatFloat(c.Latitude, 'f', -1, 64) +
		"," + strconv.FormatFloat(c.Longitude, 'f', -1, 64) + ")"
}

// Locator returns the current device position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Prompter asks the user for a single text value. Implementations return
// ErrCancelled (or an error wrapping it) when the user dismisses the prompt.
// An empty string is a valid answer.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

// Config is the immutable configuration of a Resolver and Expander.
type Config struct {
	// Now returns the wall-clock time for DATE, TIME, DAY and MONTH.
	// Defaults to time.Now.
	Now func() time.Time
	// Locator serves HERE. Nil makes HERE fail with ErrNoLocator.
	Locator Locator
	// Prompter serves every non-reserved name. Nil makes those names fail
	// with ErrMissingValue.
	Prompter Prompter
	// Presets supply values up front. A preset wins over built-ins and
	// prompting.
	Presets map[string]string
	// Policy controls repeated placeholders per line.
	Policy Policy
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

type builtin func(ctx context.Context, now time.Time) (string, error)

// Resolver turns placeholder names into a variable table.
type Resolver struct {
	now      func() time.Time
	locator  Locator
	prompter Prompter
	presets  map[string]string
	builtins map[string]builtin
	logger   *zap.Logger
}

// NewResolver creates a resolver from cfg. Presets are copied.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		now:      cfg.Now,
		locator:  cfg.Locator,
		prompter: cfg.Prompter,
		presets:  make(map[string]string, len(cfg.Presets)),
		logger:   cfg.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for name, value := range cfg.Presets {
		r.presets[name] = value
	}

	r.builtins = map[string]builtin{
		NameDate:  formatNow(DateLayout),
		NameTime:  formatNow(TimeLayout),
		NameDay:   formatNow(DayLayout),
		NameMonth: formatNow(MonthLayout),
		NameHere:  r.here,
	}
	return r
}

// IsReserved reports whether name has a built-in value.
func IsReserved(name string) bool {
	switch name {
	case NameDate, NameTime, NameDay, NameMonth, NameHere:
		return true
	}
	return false
}

// Resolve produces a value for every name, one at a time and in the given
// order. The clock is read once so all time-based values agree. The context
// is checked before each name; the first failure aborts resolution.
func (r *Resolver) Resolve(ctx context.Context, names []string) (Table, error) {
	now := r.now()
	values := make(map[string]string, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Table{}, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		if _, done := values[name]; done {
			continue
		}

		value, err := r.resolveOne(ctx, name, now)
		if err != nil {
			r.logger.Debug("placeholder resolution failed", zap.String("name", name), zap.Error(err))
			return Table{}, &ResolveError{Name: name, Err: err}
		}
		values[name] = value
	}
	return NewTable(values), nil
}

func (r *Resolver) resolveOne(ctx context.Context, name string, now time.Time) (string, error) {
	if value, ok := r.presets[name]; ok {
		r.logger.Debug("placeholder preset", zap.String("name", name))
		return value, nil
	}
	if fn, ok := r.builtins[name]; ok {
		r.logger.Debug("placeholder built-in", zap.String("name", name))
		return fn(ctx, now)
	}
	if r.prompter == nil {
		return "", ErrMissingValue
	}
	r.logger.Debug("prompting for placeholder", zap.String("name", name))
	return r.prompter.Prompt(ctx, name)
}

func (r *Resolver) here(ctx context.Context, _ time.Time) (string, error) {
	if r.locator == nil {
		return "", ErrNoLocator
	}
	r.logger.Info("fetching location")
	coords, err := r.locator.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("locating device: %w", err)
	}
	return coords.String(), nil
}

func formatNow(layout string) builtin {
	return func(_ context.Context, now time.Time) (string, error) {
		return now.Format(layout), nil
	}
}
