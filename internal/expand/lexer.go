package expand

import (
	"sort"
	"strings"
)

const (
	placeholderOpen  = "${"
	placeholderClose = "}"
	markerOpen       = "<<"
	markerClose      = ">>"
)

// TokenKind distinguishes literal text from placeholder references.
type TokenKind int

const (
	// TokenText is literal text copied to the output unchanged.
	TokenText TokenKind = iota
	// TokenPlaceholder is a ${NAME} reference.
	TokenPlaceholder
)

// Token is one lexical unit of a line.
// For placeholders, Text holds the raw "${NAME}" form and Name the inner name.
type Token struct {
	Kind TokenKind
	Text string
	Name string
}

// Line is a lexed template line. Concatenating token texts yields the
// input line exactly.
type Line []Token

// Document is a parsed template.
type Document struct {
	// Title is the first line with the destination marker removed.
	Title Line
	// Destination is the lexed marker content; placeholders inside it are
	// expanded with the same table as the rest of the document.
	Destination Line
	// HasDestination is false when the first line carries no usable marker.
	HasDestination bool
	// Body holds every line after the title.
	Body []Line
}

// Parse lexes a template in two passes: the destination-marker pass over the
// first line, then the placeholder pass over every line.
//
// A single trailing newline does not produce an empty final line.
func Parse(text string) *Document {
	lines := SplitLines(text)

	title := lines[0]
	dest, stripped, ok := ExtractDestination(title)

	doc := &Document{
		Title:          LexLine(stripped),
		HasDestination: ok,
		Body:           make([]Line, 0, len(lines)-1),
	}
	if ok {
		doc.Destination = LexLine(dest)
	}
	for _, raw := range lines[1:] {
		doc.Body = append(doc.Body, LexLine(raw))
	}
	return doc
}

// SplitLines splits text on newlines, dropping the empty element produced by
// a trailing newline. It always returns at least one line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ExtractDestination finds the destination marker on a title line.
//
// The destination is the content of the last <<...>> pair: the text between
// the last "<<" that precedes the last ">>" and that ">>". The stripped line
// has everything from the first "<<" through the last ">>" removed. An empty
// marker ("<<>>") counts as no destination, and the line is returned as is.
func ExtractDestination(line string) (destination, stripped string, ok bool) {
	closeIdx := strings.LastIndex(line, markerClose)
	if closeIdx < 0 {
		return "", line, false
	}
	openIdx := strings.LastIndex(line[:closeIdx], markerOpen)
	if openIdx < 0 {
		return "", line, false
	}

	destination = line[openIdx+len(markerOpen) : closeIdx]
	if destination == "" {
		return "", line, false
	}

	firstOpen := strings.Index(line, markerOpen)
	stripped = line[:firstOpen] + line[closeIdx+len(markerClose):]
	return destination, stripped, true
}

// LexLine splits a line into text and placeholder tokens.
//
// A placeholder is "${" followed by one or more characters other than "}"
// and a closing "}". "${}" and an unterminated "${" are literal text.
func LexLine(line string) Line {
	var tokens Line
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: text.String()})
			text.Reset()
		}
	}

	rest := line
	for rest != "" {
		start := strings.Index(rest, placeholderOpen)
		if start < 0 {
			text.WriteString(rest)
			break
		}
		text.WriteString(rest[:start])
		rest = rest[start:]

		end := strings.Index(rest[len(placeholderOpen):], placeholderClose)
		if end < 0 {
			text.WriteString(rest)
			break
		}
		name := rest[len(placeholderOpen) : len(placeholderOpen)+end]
		raw := rest[:len(placeholderOpen)+end+len(placeholderClose)]
		rest = rest[len(raw):]

		if name == "" {
			text.WriteString(raw)
			continue
		}
		flushText()
		tokens = append(tokens, Token{Kind: TokenPlaceholder, Text: raw, Name: name})
	}
	flushText()
	return tokens
}

// String returns the line text with no substitution applied.
func (l Line) String() string {
	var b strings.Builder
	for _, tok := range l {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Names returns the placeholder names referenced by the line, in order of
// appearance, including repeats.
func (l Line) Names() []string {
	var names []string
	for _, tok := range l {
		if tok.Kind == TokenPlaceholder {
			names = append(names, tok.Name)
		}
	}
	return names
}

// Placeholders returns the sorted, deduplicated placeholder names of the
// document, including any referenced inside the destination marker.
func (d *Document) Placeholders() []string {
	seen := make(map[string]struct{})
	collect := func(l Line) {
		for _, name := range l.Names() {
			seen[name] = struct{}{}
		}
	}
	collect(d.Title)
	collect(d.Destination)
	for _, l := range d.Body {
		collect(l)
	}
	return sortedKeys(seen)
}

// Placeholders extracts the sorted set of unique placeholder names from raw
// template text. Placeholders never span a line break.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})
	for _, raw := range SplitLines(text) {
		for _, name := range LexLine(raw).Names() {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
