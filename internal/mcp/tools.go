package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/launcher"
)

// --- Expand tool ---

// ExpandInput is the input for the expand tool.
type ExpandInput struct {
	Text     string            `json:"text,omitempty"     jsonschema:"raw template text; first line carries <<destination>>"`
	Template string            `json:"template,omitempty" jsonschema:"name of a library template, instead of text"`
	Vars     map[string]string `json:"vars,omitempty"     jsonschema:"values for ${NAME} placeholders"`
	Policy   string            `json:"policy,omitempty"   jsonschema:"all (default) replaces every occurrence; first replaces one per line"`
	Deliver  bool              `json:"deliver,omitempty"  jsonschema:"send the expanded text to the configured sink"`
}

// ExpandOutput is the output for the expand tool.
type ExpandOutput struct {
	Destination string            `json:"destination" jsonschema:"project, folder, inbox or projects target"`
	Text        string            `json:"text"        jsonschema:"expanded TaskPaper text without the destination marker"`
	Variables   map[string]string `json:"variables"   jsonschema:"value used for each placeholder"`
	Delivered   bool              `json:"delivered"   jsonschema:"whether the sink received the text"`
}

func handleExpand(deps Deps) mcp.ToolHandlerFor[ExpandInput, ExpandOutput] {
	deps = deps.withDefaults()
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExpandInput) (*mcp.CallToolResult, ExpandOutput, error) {
		text, err := templateText(deps.Library, input.Text, input.Template)
		if err != nil {
			return nil, ExpandOutput{}, err
		}

		policy := deps.Policy
		if input.Policy != "" {
			if policy, err = expand.ParsePolicy(input.Policy); err != nil {
				return nil, ExpandOutput{}, err
			}
		}

		if missing := missingVars(text, deps.Presets, input.Vars); len(missing) > 0 {
			return nil, ExpandOutput{}, missingVarsError(missing)
		}

		expander := expand.New(expand.Config{
			Now:     deps.Now,
			Locator: deps.Locator,
			Presets: mergeVars(deps.Presets, input.Vars),
			Policy:  policy,
			Logger:  deps.Logger,
		})

		var result *expand.Result
		if input.Deliver {
			if deps.Sink == nil {
				return nil, ExpandOutput{}, errors.New("delivery is not configured for this server")
			}
			result, err = expander.ExpandTo(ctx, text, deps.Sink)
		} else {
			result, err = expander.Expand(ctx, text)
		}
		if err != nil {
			return nil, ExpandOutput{}, err
		}

		deps.Logger.Info("expanded via mcp",
			zap.String("destination", result.Destination),
			zap.Bool("delivered", input.Deliver))
		return nil, ExpandOutput{
			Destination: result.Destination,
			Text:        result.Text,
			Variables:   result.Variables,
			Delivered:   input.Deliver,
		}, nil
	}
}

// --- Placeholders tool ---

// PlaceholdersInput is the input for the placeholders tool.
type PlaceholdersInput struct {
	Text     string `json:"text,omitempty"     jsonschema:"raw template text"`
	Template string `json:"template,omitempty" jsonschema:"name of a library template, instead of text"`
}

// PlaceholdersOutput is the output for the placeholders tool.
type PlaceholdersOutput struct {
	Destination    string   `json:"destination"     jsonschema:"raw destination marker content"`
	HasDestination bool     `json:"has_destination" jsonschema:"false when the first line has no <<destination>>"`
	Placeholders   []string `json:"placeholders"    jsonschema:"sorted unique placeholder names"`
	Needed         []string `json:"needed"          jsonschema:"names that must be supplied in vars"`
}

func handlePlaceholders(deps Deps) mcp.ToolHandlerFor[PlaceholdersInput, PlaceholdersOutput] {
	deps = deps.withDefaults()
	return func(_ context.Context, _ *mcp.CallToolRequest, input PlaceholdersInput) (*mcp.CallToolResult, PlaceholdersOutput, error) {
		text, err := templateText(deps.Library, input.Text, input.Template)
		if err != nil {
			return nil, PlaceholdersOutput{}, err
		}
		preview := expand.Inspect(text)
		return nil, PlaceholdersOutput{
			Destination:    preview.Destination,
			HasDestination: preview.HasDestination,
			Placeholders:   preview.Placeholders,
			Needed:         missingVars(text, deps.Presets),
		}, nil
	}
}

// --- Templates tool ---

// TemplatesInput is the input for the templates tool (no parameters needed).
type TemplatesInput struct{}

// TemplateSummary describes one library template.
type TemplateSummary struct {
	Name        string `json:"name"                  jsonschema:"template name"`
	Description string `json:"description,omitempty" jsonschema:"one-line description"`
	Source      string `json:"source"                jsonschema:"project, global or built-in"`
	Overrides   string `json:"overrides,omitempty"   jsonschema:"source this template shadows"`
}

// TemplatesOutput is the output for the templates tool.
type TemplatesOutput struct {
	Templates []TemplateSummary `json:"templates" jsonschema:"available templates"`
}

func handleTemplates(deps Deps) mcp.ToolHandlerFor[TemplatesInput, TemplatesOutput] {
	deps = deps.withDefaults()
	return func(_ context.Context, _ *mcp.CallToolRequest, _ TemplatesInput) (*mcp.CallToolResult, TemplatesOutput, error) {
		infos := deps.Library.List()
		out := TemplatesOutput{Templates: make([]TemplateSummary, 0, len(infos))}
		for _, info := range infos {
			out.Templates = append(out.Templates, TemplateSummary{
				Name:        info.Name,
				Description: info.Description,
				Source:      info.Source,
				Overrides:   info.Overrides,
			})
		}
		return nil, out, nil
	}
}

// --- Launch tool ---

// LaunchInput is the input for the launch tool.
type LaunchInput struct {
	Place    string `json:"place,omitempty"    jsonschema:"place name; overrides postcode lookup"`
	Postcode string `json:"postcode,omitempty" jsonschema:"postcode whose first part maps to a place"`
	At       string `json:"at,omitempty"       jsonschema:"RFC 3339 time to evaluate instead of now"`
}

// LaunchOutput is the output for the launch tool.
type LaunchOutput struct {
	Key       string            `json:"key"        jsonschema:"context key place,dayType,day,ampm,hourType,hour"`
	Context   launcher.Context  `json:"context"    jsonschema:"context fields"`
	Rule      string            `json:"rule"       jsonschema:"title of the matching rule"`
	Shortcuts []string          `json:"shortcuts"  jsonschema:"shortcuts offered by the rule"`
	URLs      map[string]string `json:"urls"       jsonschema:"shortcuts:// URL per shortcut"`
}

func handleLaunch(deps Deps) mcp.ToolHandlerFor[LaunchInput, LaunchOutput] {
	deps = deps.withDefaults()
	return func(_ context.Context, _ *mcp.CallToolRequest, input LaunchInput) (*mcp.CallToolResult, LaunchOutput, error) {
		if deps.Launcher == nil {
			return nil, LaunchOutput{}, errors.New("launcher is not configured")
		}

		at := deps.Now()
		if input.At != "" {
			parsed, err := time.Parse(time.RFC3339, input.At)
			if err != nil {
				return nil, LaunchOutput{}, fmt.Errorf("invalid at: %w", err)
			}
			at = parsed
		}

		place := deps.LauncherConfig.ResolvePlace(input.Place, input.Postcode)
		lctx := launcher.NewContext(place, at)
		rule, err := deps.Launcher.Match(lctx)
		if err != nil {
			return nil, LaunchOutput{}, err
		}

		urls := make(map[string]string, len(rule.Shortcuts))
		for _, name := range rule.Shortcuts {
			urls[name] = launcher.ShortcutURL(name)
		}
		return nil, LaunchOutput{
			Key:       lctx.Key(),
			Context:   lctx,
			Rule:      rule.Title,
			Shortcuts: rule.Shortcuts,
			URLs:      urls,
		}, nil
	}
}
