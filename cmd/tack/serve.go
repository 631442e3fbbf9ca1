package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/tack/internal/launcher"
	tackmcp "github.com/gorewood/tack/internal/mcp"
	"github.com/gorewood/tack/internal/output"
	"github.com/gorewood/tack/internal/sink"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run tack as a Model Context Protocol (MCP) server over stdio.

This exposes template expansion and the launcher as MCP tools so an agent
can file TaskPaper text without a terminal. Tools never prompt: every
non-built-in placeholder must be passed in vars.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "tack": {
        "command": "tack",
        "args": ["serve"]
      }
    }
  }

Available tools: expand, placeholders, templates, launch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := resolveDeps(cmd, nil)
			if err != nil {
				return err
			}

			l, err := launcher.New(d.Settings.Launcher, d.Logger)
			if err != nil {
				return output.NewUserErrorWithCause(err.Error(), err)
			}

			// Stdout carries the protocol, so the stdout sink cannot be used.
			var target sink.Sink
			if d.Settings.Sink.Kind != sink.KindStdout && d.Settings.Sink.Kind != sink.KindURL {
				target, err = sink.New(d.Settings.Sink, sink.Deps{
					Out:    cmd.ErrOrStderr(),
					Opener: d.Opener,
					Now:    d.Now,
					Logger: d.Logger,
				})
				if err != nil {
					return output.NewUserErrorWithCause(err.Error(), err)
				}
			}

			server := tackmcp.NewServer(buildVersion(), tackmcp.Deps{
				Library:        d.Library,
				Locator:        d.Locator,
				Presets:        d.Settings.Expand.Vars,
				Policy:         d.Settings.Policy(),
				Launcher:       l,
				LauncherConfig: d.Settings.Launcher,
				Sink:           target,
				Now:            d.Now,
				Logger:         d.Logger,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
