package sink

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/callback"
)

// OmniFocus pastes TaskPaper text into OmniFocus through its URL scheme.
type OmniFocus struct {
	opener Opener
	logger *zap.Logger
}

// NewOmniFocus creates an OmniFocus sink using opener.
func NewOmniFocus(opener Opener, logger *zap.Logger) *OmniFocus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OmniFocus{opener: opener, logger: logger}
}

// Deliver opens the paste URL for destination.
func (o *OmniFocus) Deliver(ctx context.Context, destination, text string) error {
	u := callback.Paste(destination, text).String()
	o.logger.Debug("opening omnifocus paste url", zap.String("target", destination), zap.Int("bytes", len(text)))
	return o.opener.Open(ctx, u)
}

// URLWriter prints the paste URL so another tool can open it.
type URLWriter struct {
	w io.Writer
}

// NewURLWriter creates a URLWriter.
func NewURLWriter(w io.Writer) *URLWriter {
	return &URLWriter{w: w}
}

// Deliver writes the paste URL followed by a newline.
func (u *URLWriter) Deliver(_ context.Context, destination, text string) error {
	if _, err := fmt.Fprintln(u.w, callback.Paste(destination, text).String()); err != nil {
		return fmt.Errorf("writing url: %w", err)
	}
	return nil
}

// Writer prints the expanded text unchanged.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Deliver writes text.
func (s *Writer) Deliver(_ context.Context, _, text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("writing text: %w", err)
	}
	return nil
}
