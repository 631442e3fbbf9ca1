package prompter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gorewood/tack/internal/expand"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// TUI prompts with a bubbletea text input.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI creates a TUI prompter on the given terminal streams.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

// Prompt shows a text input labelled with label.
// Enter submits; Esc or Ctrl+C cancels.
func (t *TUI) Prompt(ctx context.Context, label string) (string, error) {
	m, err := t.run(ctx, newInputModel(label))
	if err != nil {
		return "", err
	}
	im := m.(inputModel)
	if im.cancelled {
		return "", expand.ErrCancelled
	}
	return im.input.Value(), nil
}

// Confirm asks a yes/no question. Enter or y accepts, n or Esc declines,
// Ctrl+C cancels.
func (t *TUI) Confirm(ctx context.Context, title, message string) (bool, error) {
	m, err := t.run(ctx, confirmModel{title: title, message: message})
	if err != nil {
		return false, err
	}
	cm := m.(confirmModel)
	if cm.cancelled {
		return false, expand.ErrCancelled
	}
	return cm.answer, nil
}

func (t *TUI) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return nil, fmt.Errorf("%w: %w", expand.ErrCancelled, err)
		}
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

type inputModel struct {
	label     string
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newInputModel(label string) inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = 60
	ti.Focus()
	return inputModel{label: label, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.cancelled {
		return ""
	}
	if m.submitted {
		return titleStyle.Render(m.label) + " " + answerStyle.Render(m.input.Value()) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.label))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render("enter to accept • esc to cancel"))
	b.WriteByte('\n')
	return b.String()
}

type confirmModel struct {
	title     string
	message   string
	answer    bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.answer, m.done = true, true
		return m, tea.Quit
	case tea.KeyEsc:
		m.answer, m.done = false, true
		return m, tea.Quit
	case tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.answer, m.done = true, true
			return m, tea.Quit
		case "n":
			m.answer, m.done = false, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.cancelled || m.done {
		return ""
	}
	return titleStyle.Render(m.title) + "\n" + m.message + " " + hintStyle.Render("[Y/n]") + "\n"
}
