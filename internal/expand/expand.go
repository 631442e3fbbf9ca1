package expand

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sink receives a fully expanded template.
type Sink interface {
	Deliver(ctx context.Context, destination, text string) error
}

// Result is the outcome of a successful expansion.
type Result struct {
	Destination string            `json:"destination"`
	Text        string            `json:"text"`
	Variables   map[string]string `json:"variables"`
}

// Preview describes a template without resolving it.
type Preview struct {
	Destination    string   `json:"destination"`
	HasDestination bool     `json:"has_destination"`
	Placeholders   []string `json:"placeholders"`
	Prompted       []string `json:"prompted"`
}

// Expander runs the full expansion pipeline.
type Expander struct {
	resolver *Resolver
	policy   Policy
	logger   *zap.Logger
}

// New creates an Expander from cfg.
func New(cfg Config) *Expander {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{
		resolver: NewResolver(cfg),
		policy:   cfg.Policy,
		logger:   logger,
	}
}

// Policy returns the substitution policy in use.
func (e *Expander) Policy() Policy {
	return e.policy
}

// Expand parses text, resolves its placeholders and renders the result.
//
// A template without a destination marker fails with ErrNoDestination
// before anything is resolved, so the user is never prompted for a template
// that cannot be delivered.
func (e *Expander) Expand(ctx context.Context, text string) (*Result, error) {
	doc := Parse(text)
	if !doc.HasDestination {
		return nil, ErrNoDestination
	}

	names := doc.Placeholders()
	e.logger.Debug("placeholders extracted", zap.Strings("names", names))

	table, err := e.resolver.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Destination: doc.Destination.Render(table, ReplaceAll),
		Text:        doc.Render(table, e.policy),
		Variables:   table.Map(),
	}
	e.logger.Debug("template expanded",
		zap.String("destination", result.Destination),
		zap.Int("variables", table.Len()),
		zap.Stringer("policy", e.policy),
	)
	return result, nil
}

// ExpandTo expands text and hands the result to sink. The sink is only
// called when expansion succeeded completely.
func (e *Expander) ExpandTo(ctx context.Context, text string, sink Sink) (*Result, error) {
	result, err := e.Expand(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := sink.Deliver(ctx, result.Destination, result.Text); err != nil {
		return nil, fmt.Errorf("delivering to %s: %w", result.Destination, err)
	}
	return result, nil
}

// Inspect reports the destination and placeholders of text without
// resolving anything. Prompted lists the names that would need a prompt.
func Inspect(text string) *Preview {
	doc := Parse(text)
	names := doc.Placeholders()

	prompted := make([]string, 0, len(names))
	for _, name := range names {
		if !IsReserved(name) {
			prompted = append(prompted, name)
		}
	}

	return &Preview{
		Destination:    doc.Destination.String(),
		HasDestination: doc.HasDestination,
		Placeholders:   names,
		Prompted:       prompted,
	}
}
