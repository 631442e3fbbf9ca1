package sink

import (
	"context"
	"fmt"
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Confirming asks before passing a delivery to the wrapped sink.
type Confirming struct {
	next      Sink
	confirmer Confirmer
	title     string
}

// NewConfirming wraps next so each delivery is confirmed first.
func NewConfirming(next Sink, confirmer Confirmer, title string) *Confirming {
	return &Confirming{next: next, confirmer: confirmer, title: title}
}

// Deliver asks "To <destination>" and delivers only on approval.
func (c *Confirming) Deliver(ctx context.Context, destination, text string) error {
	ok, err := c.confirmer.Confirm(ctx, c.title, "To "+destination)
	if err != nil {
		return fmt.Errorf("confirming delivery: %w", err)
	}
	if !ok {
		return ErrDeclined
	}
	return c.next.Deliver(ctx, destination, text)
}
