package prompter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gorewood/tack/internal/expand"
)

// Line prompts with plain text and reads one line per answer.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine creates a line prompter reading from in and writing prompts to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Prompt writes "label: " and returns the next line without its terminator.
// End of input before any text counts as cancellation.
func (l *Line) Prompt(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprintf(l.out, "%s: ", label); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	return l.readLine(ctx)
}

// Confirm asks a yes/no question. An empty answer means yes.
func (l *Line) Confirm(ctx context.Context, title, message string) (bool, error) {
	if _, err := fmt.Fprintf(l.out, "%s\n%s [Y/n]: ", title, message); err != nil {
		return false, fmt.Errorf("writing prompt: %w", err)
	}
	answer, err := l.readLine(ctx)
	if err != nil {
		return false, err
	}
	return parseYes(answer, true), nil
}

func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", expand.ErrCancelled, err)
	}
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", expand.ErrCancelled
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseYes(answer string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def
	case "y", "yes", "ok":
		return true
	default:
		return false
	}
}
