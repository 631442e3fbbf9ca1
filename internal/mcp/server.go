// Package mcp provides a Model Context Protocol server for tack.
// It exposes template expansion and the context launcher as MCP tools so an
// agent can file TaskPaper text without an interactive terminal.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/launcher"
	"github.com/gorewood/tack/internal/sink"
	"github.com/gorewood/tack/internal/templates"
)

// Deps are the collaborators the tools run against.
type Deps struct {
	Library *templates.Library
	Locator expand.Locator
	// Presets are applied before tool-supplied vars.
	Presets  map[string]string
	Policy   expand.Policy
	Launcher *launcher.Launcher
	// LauncherConfig resolves place for the launch tool.
	LauncherConfig launcher.Config
	// Sink receives expansions when the caller asks for delivery. Nil
	// disables delivery.
	Sink   sink.Sink
	Now    func() time.Time
	Logger *zap.Logger
}

// NewServer creates an MCP server with all tack tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	deps = deps.withDefaults()
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tack",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Library == nil {
		d.Library = templates.NewLibrary()
	}
	return d
}

func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "expand",
		Description: "Expand a TaskPaper template. Pass raw text or a template name plus vars for every " +
			"non-built-in ${NAME}. Built-ins DATE, TIME, DAY, MONTH and HERE are filled automatically. " +
			"Set deliver=true to send the result to the configured sink.",
		Annotations: writeAnnotations(),
	}, handleExpand(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "placeholders",
		Description: "List the destination and ${NAME} placeholders of a template, and which ones need vars.",
		Annotations: readOnlyAnnotations(),
	}, handlePlaceholders(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "templates",
		Description: "List named templates from the project, user and built-in libraries.",
		Annotations: readOnlyAnnotations(),
	}, handleTemplates(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "launch",
		Description: "Compute the place/time context key and the first matching launcher rule with its shortcuts.",
		Annotations: readOnlyAnnotations(),
	}, handleLaunch(deps))
}
