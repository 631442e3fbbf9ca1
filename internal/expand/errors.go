package expand

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDestination is returned when the title line has no <<...>> marker
	// or the marker is empty.
	ErrNoDestination = errors.New("no destination marker on first line")

	// ErrCancelled is returned when the user dismisses a prompt or the
	// expansion context is cancelled between resolutions.
	ErrCancelled = errors.New("expansion cancelled")

	// ErrMissingValue is returned when a placeholder needs a prompt but no
	// Prompter is configured.
	ErrMissingValue = errors.New("no value supplied")

	// ErrNoLocator is returned when HERE is used without a Locator.
	ErrNoLocator = errors.New("location lookup not configured")
)

// ResolveError reports the placeholder whose resolution failed.
type ResolveError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving ${%s}: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ResolveError) Unwrap() error {
	return e.Err
}
