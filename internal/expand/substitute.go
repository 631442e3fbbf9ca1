package expand

import (
	"fmt"
	"sort"
	"strings"
)

// Policy selects how repeated placeholders within one line are substituted.
type Policy int

const (
	// ReplaceAll substitutes every occurrence of each placeholder.
	ReplaceAll Policy = iota
	// ReplaceFirst substitutes only the first occurrence of each placeholder
	// per line; later occurrences are left as literal ${NAME} text.
	ReplaceFirst
)

// ParsePolicy converts a policy name ("all", "first") to a Policy.
// The empty string selects ReplaceAll.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return ReplaceAll, nil
	case "first":
		return ReplaceFirst, nil
	default:
		return ReplaceAll, fmt.Errorf("unknown substitution policy %q (want all or first)", name)
	}
}

// String returns the policy name accepted by ParsePolicy.
func (p Policy) String() string {
	if p == ReplaceFirst {
		return "first"
	}
	return "all"
}

// Table maps placeholder names to resolved values. It is immutable once
// built; the zero value is an empty table.
type Table struct {
	names  []string
	values map[string]string
}

// NewTable builds a table from a copy of values.
func NewTable(values map[string]string) Table {
	t := Table{
		names:  make([]string, 0, len(values)),
		values: make(map[string]string, len(values)),
	}
	for name, value := range values {
		t.names = append(t.names, name)
		t.values[name] = value
	}
	sort.Strings(t.names)
	return t
}

// Names returns the table keys in ascending order.
func (t Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Lookup returns the value for name.
func (t Table) Lookup(name string) (string, bool) {
	value, ok := t.values[name]
	return value, ok
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.names)
}

// Map returns a copy of the table contents.
func (t Table) Map() map[string]string {
	out := make(map[string]string, len(t.values))
	for name, value := range t.values {
		out[name] = value
	}
	return out
}

// Render substitutes table values into the line according to policy.
// Placeholders missing from the table are emitted unchanged.
func (l Line) Render(table Table, policy Policy) string {
	var b strings.Builder
	var replaced map[string]bool
	if policy == ReplaceFirst {
		replaced = make(map[string]bool)
	}

	for _, tok := range l {
		if tok.Kind != TokenPlaceholder {
			b.WriteString(tok.Text)
			continue
		}
		value, ok := table.Lookup(tok.Name)
		if !ok || (replaced != nil && replaced[tok.Name]) {
			b.WriteString(tok.Text)
			continue
		}
		if replaced != nil {
			replaced[tok.Name] = true
		}
		b.WriteString(value)
	}
	return b.String()
}

// SubstituteLine substitutes table values into a single raw line.
func SubstituteLine(line string, table Table, policy Policy) string {
	return LexLine(line).Render(table, policy)
}

// Render rewrites the whole document. The title is emitted without its
// marker, and every line, including the last, is terminated by a newline.
func (d *Document) Render(table Table, policy Policy) string {
	var b strings.Builder
	b.WriteString(d.Title.Render(table, policy))
	b.WriteByte('\n')
	for _, l := range d.Body {
		b.WriteString(l.Render(table, policy))
		b.WriteByte('\n')
	}
	return b.String()
}
