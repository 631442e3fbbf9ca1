package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/tack/internal/config"
	"github.com/gorewood/tack/internal/output"
)

// newConfigCmd creates the config command.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and create the settings file",
		Long: `Inspect tack settings.

Settings are read from <config dir>/config.yaml (or --config), then
TACK_* environment variables override them. Environment variables may also
come from .env.local, .env and <config dir>/env.

Examples:
  tack config path     # Print the settings file path
  tack config show     # Print the effective settings
  tack config init     # Write a settings file with the defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

// configPath returns --config or the default settings path.
func configPath(cmd *cobra.Command) string {
	if path := persistentFlag(cmd, "config"); path != "" {
		return path
	}
	return config.FilePath()
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			path := configPath(cmd)
			if path == "" {
				err := output.NewSystemError("cannot determine config directory: set TACK_CONFIG_HOME")
				printer.Error(err)
				return err
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"path": path, "dir": config.Dir()})
			}
			printer.Println(path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			settings, err := config.Load(persistentFlag(cmd, "config"))
			if err != nil {
				uerr := output.NewUserErrorWithCause(err.Error(), err)
				printer.Error(uerr)
				return uerr
			}

			data, err := settings.Marshal()
			if err != nil {
				sysErr := output.NewSystemErrorWithCause(err.Error(), err)
				printer.Error(sysErr)
				return sysErr
			}

			// JSON keys follow the YAML names.
			if printer.IsJSON() {
				var doc map[string]any
				if err := yaml.Unmarshal(data, &doc); err != nil {
					sysErr := output.NewSystemErrorWithCause(err.Error(), err)
					printer.Error(sysErr)
					return sysErr
				}
				return printer.WriteJSON(doc)
			}
			printer.Print("%s", data)
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			path := configPath(cmd)
			if path == "" {
				err := output.NewSystemError("cannot determine config directory: set TACK_CONFIG_HOME")
				printer.Error(err)
				return err
			}
			if err := config.WriteDefault(path); err != nil {
				cerr := output.NewConflictError(err.Error())
				printer.Error(cerr)
				return cerr
			}
			return printer.Success(map[string]any{
				"status":  "created",
				"path":    path,
				"message": "Created " + path,
			})
		},
	}
}
