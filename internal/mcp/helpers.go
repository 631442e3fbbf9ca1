package mcp

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/templates"
)

func boolPtr(b bool) *bool {
	return &b
}

func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations marks tools that may hand text to another application.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
}

// templateText returns text, or the content of the named template.
// Exactly one of the two must be set.
func templateText(lib *templates.Library, text, name string) (string, error) {
	switch {
	case text != "" && name != "":
		return "", errors.New("pass either text or template, not both")
	case name != "":
		tmpl, err := lib.Load(name)
		if err != nil {
			return "", err
		}
		return tmpl.Content, nil
	case text != "":
		return text, nil
	default:
		return "", errors.New("text or template is required")
	}
}

// missingVars lists the prompted names of text that have no value.
func missingVars(text string, values ...map[string]string) []string {
	var missing []string
	for _, name := range expand.Inspect(text).Prompted {
		found := false
		for _, m := range values {
			if _, ok := m[name]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func mergeVars(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range layers {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func missingVarsError(names []string) error {
	return fmt.Errorf("%w: vars needed for %s", expand.ErrMissingValue, strings.Join(names, ", "))
}
