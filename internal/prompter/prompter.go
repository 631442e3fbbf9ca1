// Package prompter asks the user for placeholder values and confirmations.
//
// A terminal gets a bubbletea text input; anything else gets a plain
// line-based prompt. Both satisfy expand.Prompter and sink.Confirmer.
package prompter

import (
	"os"

	"golang.org/x/term"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/sink"
)

// Interactive prompts for values and confirmations.
type Interactive interface {
	expand.Prompter
	sink.Confirmer
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// New picks a prompter for the given streams: a TUI prompter when both are
// terminals, a line prompter otherwise.
func New(in *os.File, out *os.File) Interactive {
	if IsTerminal(in) && IsTerminal(out) {
		return NewTUI(in, out)
	}
	return NewLine(in, out)
}

// OpenTerminal opens the controlling terminal so prompts still work when
// stdin carries the template. The caller closes the returned file.
func OpenTerminal() (*os.File, error) {
	name := "/dev/tty"
	if os.PathSeparator == '\\' {
		name = "CONIN$"
	}
	return os.OpenFile(name, os.O_RDWR, 0)
}
