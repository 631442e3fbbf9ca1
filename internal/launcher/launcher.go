// Package launcher picks shortcuts to offer based on place and time of day.
//
// A context key such as "Home,Weekday,Fri,am,Morning,09" is tested against
// an ordered rule list; the first rule whose pattern and optional CEL
// condition both match wins.
package launcher

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/callback"
)

// ErrNoMatch is returned when no rule matches a context.
var ErrNoMatch = errors.New("no rule matches context")

type compiledRule struct {
	rule    Rule
	pattern *regexp.Regexp
	when    cel.Program
}

// Launcher evaluates rules against contexts.
type Launcher struct {
	rules  []compiledRule
	logger *zap.Logger
}

// New compiles the rules in cfg.
func New(cfg Config, logger *zap.Logger) (*Launcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env, err := cel.NewEnv(
		cel.Variable("place", cel.StringType),
		cel.Variable("day_type", cel.StringType),
		cel.Variable("day", cel.StringType),
		cel.Variable("ampm", cel.StringType),
		cel.Variable("hour_type", cel.StringType),
		cel.Variable("hour", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	l := &Launcher{rules: make([]compiledRule, 0, len(cfg.Rules)), logger: logger}
	for i, r := range cfg.Rules {
		cr := compiledRule{rule: r}
		if r.Match != "" {
			cr.pattern, err = regexp.Compile(r.Match)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): invalid match: %w", i, r.Title, err)
			}
		}
		if r.When != "" {
			ast, issues := env.Compile(r.When)
			if issues != nil && issues.Err() != nil {
				return nil, fmt.Errorf("rule %d (%s): invalid when: %w", i, r.Title, issues.Err())
			}
			cr.when, err = env.Program(ast)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): invalid when: %w", i, r.Title, err)
			}
		}
		l.rules = append(l.rules, cr)
	}
	return l, nil
}

// Rules returns the configured rules in evaluation order.
func (l *Launcher) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	for i, cr := range l.rules {
		out[i] = cr.rule
	}
	return out
}

// Match returns the first rule matching c.
func (l *Launcher) Match(c Context) (*Rule, error) {
	key := c.Key()
	vars := c.vars()

	for _, cr := range l.rules {
		if cr.pattern != nil && !cr.pattern.MatchString(key) {
			continue
		}
		if cr.when != nil {
			ok, err := evalBool(cr.when, vars)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", cr.rule.Title, err)
			}
			if !ok {
				continue
			}
		}
		l.logger.Debug("rule matched", zap.String("key", key), zap.String("rule", cr.rule.Title))
		rule := cr.rule
		return &rule, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMatch, key)
}

// ShortcutURL returns the URL that runs the named shortcut.
func ShortcutURL(name string) string {
	return callback.RunShortcut(name).String()
}

func evalBool(prg cel.Program, vars map[string]any) (bool, error) {
	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluating when: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("when must evaluate to a bool, got %T", out.Value())
	}
	return b, nil
}
