package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/output"
	"github.com/gorewood/tack/internal/templates"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	return newTemplatesCmdInternal(nil)
}

// newTemplatesCmdInternal creates the templates command with an optional
// library. If lib is nil, the default library is used.
func newTemplatesCmdInternal(lib *templates.Library) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "List and inspect templates",
		Long: `List the templates available to 'tack expand'.

Templates are looked up in .tack/templates/ (project), then
<config dir>/templates/ (global), then the built-ins. A project or global
template with a built-in's name replaces it.

Examples:
  tack templates                  # List templates
  tack templates show trip        # Print a template
  tack templates vars trip        # Show what a template will ask for`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplatesList(cmd, libraryOrDefault(lib))
		},
	}

	cmd.AddCommand(newTemplatesShowCmd(lib))
	cmd.AddCommand(newTemplatesVarsCmd(lib))

	return cmd
}

func libraryOrDefault(lib *templates.Library) *templates.Library {
	if lib == nil {
		return templates.NewLibrary()
	}
	return lib
}

// runTemplatesList lists every template.
func runTemplatesList(cmd *cobra.Command, lib *templates.Library) error {
	printer := newPrinter(cmd)
	infos := lib.List()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"templates": infos})
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		source := info.Source
		if info.Overrides != "" {
			source += " (overrides " + info.Overrides + ")"
		}
		rows = append(rows, []string{info.Name, source, info.Description})
	}
	printer.Table([]string{"NAME", "SOURCE", "DESCRIPTION"}, rows)
	return nil
}

func newTemplatesShowCmd(lib *templates.Library) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			tmpl, err := loadTemplateForCmd(libraryOrDefault(lib), args[0])
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"name":        tmpl.Name,
					"description": tmpl.Description,
					"source":      tmpl.Source,
					"content":     tmpl.Content,
				})
			}
			printer.Print("%s", tmpl.Content)
			return nil
		},
	}
}

func newTemplatesVarsCmd(lib *templates.Library) *cobra.Command {
	return &cobra.Command{
		Use:   "vars <name>",
		Short: "Show a template's destination and placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			tmpl, err := loadTemplateForCmd(libraryOrDefault(lib), args[0])
			if err != nil {
				printer.Error(err)
				return err
			}

			preview := expand.Inspect(tmpl.Content)
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"name":    tmpl.Name,
					"preview": preview,
				})
			}

			dest := preview.Destination
			if !preview.HasDestination {
				dest = printer.Styles().Warning.Render("none (expand will fail)")
			}
			printer.KeyValue("Destination", dest)
			printer.KeyValue("Placeholders", joinOrDash(preview.Placeholders))
			printer.KeyValue("Prompted", joinOrDash(preview.Prompted))
			return nil
		},
	}
}

func loadTemplateForCmd(lib *templates.Library, name string) (*templates.Template, error) {
	tmpl, err := lib.Load(name)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			return nil, output.NewUserError(fmt.Sprintf("template %q not found", name))
		}
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	return tmpl, nil
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
