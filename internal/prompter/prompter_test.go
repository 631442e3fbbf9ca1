package prompter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gorewood/tack/internal/expand"
)

func TestLinePrompt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"simple answer", "Acme\n", "Acme", nil},
		{"windows newline", "Acme\r\n", "Acme", nil},
		{"empty answer is valid", "\n", "", nil},
		{"no trailing newline", "Acme", "Acme", nil},
		{"eof cancels", "", "", expand.ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLine(strings.NewReader(tt.input), &out)

			got, err := p.Prompt(context.Background(), "CLIENT")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Prompt() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Prompt() = %q, want %q", got, tt.want)
			}
			if out.String() != "CLIENT: " {
				t.Errorf("prompt text = %q, want %q", out.String(), "CLIENT: ")
			}
		})
	}
}

func TestLinePromptSequence(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("one\ntwo\n"), &out)

	first, err := p.Prompt(context.Background(), "A")
	if err != nil {
		t.Fatalf("first Prompt() error = %v", err)
	}
	second, err := p.Prompt(context.Background(), "B")
	if err != nil {
		t.Fatalf("second Prompt() error = %v", err)
	}
	if first != "one" || second != "two" {
		t.Errorf("answers = %q, %q; want one, two", first, second)
	}
	if _, err := p.Prompt(context.Background(), "C"); !errors.Is(err, expand.ErrCancelled) {
		t.Errorf("third Prompt() error = %v, want ErrCancelled", err)
	}
}

func TestLinePromptContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewLine(strings.NewReader("ignored\n"), &bytes.Buffer{})
	_, err := p.Prompt(ctx, "X")
	if !errors.Is(err, expand.ErrCancelled) {
		t.Errorf("Prompt() error = %v, want ErrCancelled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Prompt() error = %v, want context.Canceled in chain", err)
	}
}

func TestLineConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"ok\n", true},
		{"n\n", false},
		{"no\n", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewLine(strings.NewReader(tt.input), &out)
			got, err := p.Confirm(context.Background(), "Expand Template", "To inbox")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "To inbox [Y/n]") {
				t.Errorf("prompt text = %q", out.String())
			}
		})
	}
}

func TestLineConfirmEOF(t *testing.T) {
	p := NewLine(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Confirm(context.Background(), "t", "m"); !errors.Is(err, expand.ErrCancelled) {
		t.Errorf("Confirm() error = %v, want ErrCancelled", err)
	}
}

func TestInputModelKeys(t *testing.T) {
	m := newInputModel("CLIENT")
	for _, r := range "Acme" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(inputModel)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inputModel)
	if !m.submitted || m.cancelled {
		t.Errorf("after enter submitted=%v cancelled=%v", m.submitted, m.cancelled)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
	if got := m.input.Value(); got != "Acme" {
		t.Errorf("value = %q, want Acme", got)
	}
}

func TestInputModelCancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newInputModel("CLIENT")
		next, _ := m.Update(tea.KeyMsg{Type: key})
		if !next.(inputModel).cancelled {
			t.Errorf("key %v should cancel", key)
		}
		if next.View() != "" {
			t.Errorf("cancelled view = %q, want empty", next.View())
		}
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantAnswer    bool
		wantCancelled bool
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, true, false},
		{"y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, true, false},
		{"n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, false, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := confirmModel{title: "t", message: "m"}.Update(tt.key)
			cm := next.(confirmModel)
			if cm.answer != tt.wantAnswer || cm.cancelled != tt.wantCancelled {
				t.Errorf("answer=%v cancelled=%v, want %v %v", cm.answer, cm.cancelled, tt.wantAnswer, tt.wantCancelled)
			}
		})
	}
}

func TestNewPicksLineForNonTerminal(t *testing.T) {
	if _, ok := New(nil, nil).(*Line); !ok {
		t.Error("New(nil, nil) should return a line prompter")
	}
}
