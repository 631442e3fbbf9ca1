package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes command output in JSON or human form.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	json   bool
	color  bool
	styles Styles
}

// Styles holds the lipgloss styles for human output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Title   lipgloss.Style
	Key     lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
}

func colorStyles() Styles {
	return Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func plainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Error: plain, Success: plain, Warning: plain, Bold: plain, Dim: plain,
		Title: plain, Key: plain, Accent: plain, Border: plain,
	}
}

// NewPrinter creates a Printer. color enables styling in human mode and
// is normally the result of ResolveColorMode.
func NewPrinter(writer io.Writer, jsonMode bool, color bool) *Printer {
	styles := plainStyles()
	if color {
		styles = colorStyles()
	}
	return &Printer{w: writer, errW: writer, json: jsonMode, color: color, styles: styles}
}

// WithStderr sends human-mode errors, warnings and hints to w.
// JSON errors stay on the main writer.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsJSON reports whether the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// IsTTY reports whether styled output is enabled.
func (p *Printer) IsTTY() bool {
	return p.color
}

// Styles returns the active styles.
func (p *Printer) Styles() Styles {
	return p.styles
}

// Success prints a result map. Human mode prints the "message" entry when
// present, otherwise every entry as key: value in key order.
func (p *Printer) Success(data map[string]any) error {
	if p.json {
		return p.WriteJSON(data)
	}
	if msg, ok := data["message"].(string); ok {
		mustWrite(fmt.Fprintln(p.w, p.styles.Success.Render(msg)))
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.KeyValue(k, fmt.Sprint(data[k]))
	}
	return nil
}

// Error prints err. Errors that are not *ExitError are reported as user
// errors.
func (p *Printer) Error(err error) {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		exitErr = &ExitError{Code: ExitUserError, Message: err.Error()}
	}

	if p.json {
		mustWrite(p.w.Write(ErrorJSON(exitErr.Message, exitErr.Code)))
		mustWrite(fmt.Fprintln(p.w))
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render("Error"), exitErr.Message))
}

// Warn prints a warning; JSON mode emits {"warning": "..."}.
func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.json {
		_ = p.WriteJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Warning.Render("Warning"), msg))
}

// Stderr writes a hint to the error writer. No-op in JSON mode.
func (p *Printer) Stderr(format string, args ...any) {
	if p.json {
		return
	}
	mustWrite(fmt.Fprintf(p.errW, format, args...))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// WriteJSON writes data as indented JSON.
func (p *Printer) WriteJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorJSON returns {"error": message, "code": code} as bytes.
func ErrorJSON(message string, code int) []byte {
	result, _ := json.Marshal(map[string]any{"error": message, "code": code})
	return result
}

// mustWrite panics on write failure; output goes to stdout, stderr or
// buffers, where a failure means the process cannot report anything anyway.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}

// Table renders rows under headers. Styled output draws a lipgloss table;
// plain output pads columns with spaces.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	if !p.color {
		p.plainTable(headers, rows)
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.Bold.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	mustWrite(fmt.Fprintln(p.w, t.String()))
}

func (p *Printer) plainTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(widths)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
		mustWrite(fmt.Fprintln(p.w, b.String()))
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}

// Box renders content in a rounded border with an optional title.
// Plain output prints the title, a blank line and the content.
func (p *Printer) Box(title string, content string) {
	if !p.color {
		if title != "" {
			mustWrite(fmt.Fprintf(p.w, "%s\n\n", title))
		}
		mustWrite(fmt.Fprintln(p.w, content))
		return
	}

	body := content
	if title != "" {
		body = p.styles.Title.Render(title) + "\n\n" + content
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.styles.Border.GetForeground()).
		Padding(0, 1)
	mustWrite(fmt.Fprintln(p.w, style.Render(body)))
}

// Section prints a blank line, then an underlined title.
func (p *Printer) Section(title string) {
	mustWrite(fmt.Fprintf(p.w, "\n%s\n%s\n",
		p.styles.Title.Render(title),
		p.styles.Dim.Render(strings.Repeat("─", lipgloss.Width(title)))))
}

// KeyValue prints "key: value".
func (p *Printer) KeyValue(key string, value string) {
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", p.styles.Key.Render(key+":"), value))
}
