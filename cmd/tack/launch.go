package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/launcher"
	"github.com/gorewood/tack/internal/output"
)

// launchFlags holds the command-line flags for the launch command.
type launchFlags struct {
	place    string
	postcode string
	at       string
	run      string
}

// newLaunchCmd creates the launch command.
func newLaunchCmd() *cobra.Command {
	return newLaunchCmdInternal(nil)
}

// newLaunchCmdInternal creates the launch command with optional dependency
// injection.
func newLaunchCmdInternal(injected *deps) *cobra.Command {
	flags := &launchFlags{}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Show the shortcuts for your place and time of day",
		Long: `Work out the current context and list the shortcuts its rule offers.

The context key is place,dayType,day,ampm,hourType,hour, for example
"Home,Weekday,Fri,am,Morning,09". Rules are tried in order; the first whose
match pattern and optional when expression both hold wins.

The place is --place, then launcher.place, then the first part of the
postcode looked up in launcher.contexts, then launcher.default_place.

Examples:
  tack launch                        # List shortcuts for now
  tack launch --place Home --at 07:30
  tack launch --run 1                # Run the first offered shortcut
  tack launch --run "Take Coat"      # Run a shortcut by name
  tack launch rules                  # Show the rule list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLaunch(cmd, injected, flags)
		},
	}

	cmd.Flags().StringVar(&flags.place, "place", "", "Place name (skips postcode lookup)")
	cmd.Flags().StringVar(&flags.postcode, "postcode", "", "Postcode whose first part names a place")
	cmd.Flags().StringVar(&flags.at, "at", "", "Evaluate at this time instead of now (07:30, 2026-01-17T07:30, 3h)")
	cmd.Flags().StringVar(&flags.run, "run", "", "Run an offered shortcut by number or name")

	cmd.AddCommand(newLaunchRulesCmd(injected))

	return cmd
}

// runLaunch executes the launch command.
func runLaunch(cmd *cobra.Command, injected *deps, flags *launchFlags) error {
	printer := newPrinter(cmd)

	d, err := resolveDeps(cmd, injected)
	if err != nil {
		printer.Error(err)
		return err
	}

	l, err := launcher.New(d.Settings.Launcher, d.Logger)
	if err != nil {
		uerr := output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(uerr)
		return uerr
	}

	at := d.Now()
	if flags.at != "" {
		if at, err = parseAtValue(flags.at, at); err != nil {
			uerr := output.NewUserError(err.Error())
			printer.Error(uerr)
			return uerr
		}
	}

	place := d.Settings.Launcher.ResolvePlace(flags.place, flags.postcode)
	lctx := launcher.NewContext(place, at)
	rule, err := l.Match(lctx)
	if err != nil {
		if errors.Is(err, launcher.ErrNoMatch) {
			uerr := output.NewUserErrorWithCause(err.Error()+". Add a catch-all rule with match: .*", err)
			printer.Error(uerr)
			return uerr
		}
		uerr := output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(uerr)
		return uerr
	}

	if flags.run != "" {
		return runShortcut(cmd, d, printer, rule, flags.run)
	}

	if printer.IsJSON() {
		urls := make(map[string]string, len(rule.Shortcuts))
		for _, name := range rule.Shortcuts {
			urls[name] = launcher.ShortcutURL(name)
		}
		return printer.WriteJSON(map[string]any{
			"key":       lctx.Key(),
			"context":   lctx,
			"rule":      rule.Title,
			"shortcuts": rule.Shortcuts,
			"urls":      urls,
		})
	}

	styles := printer.Styles()
	printer.Println(styles.Title.Render(rule.Title))
	printer.Println(styles.Dim.Render(lctx.Key()))
	printer.Println()
	for i, name := range rule.Shortcuts {
		printer.Print("  %s %s\n", styles.Accent.Render(strconv.Itoa(i+1)+"."), name)
	}
	return nil
}

// runShortcut opens the shortcuts:// URL for the selected shortcut.
func runShortcut(cmd *cobra.Command, d *deps, printer *output.Printer, rule *launcher.Rule, selector string) error {
	name, err := pickShortcut(rule.Shortcuts, selector)
	if err != nil {
		printer.Error(err)
		return err
	}

	url := launcher.ShortcutURL(name)
	d.Logger.Debug("running shortcut", zap.String("name", name), zap.String("url", url))
	if err := d.Opener.Open(cmd.Context(), url); err != nil {
		var exitErr *output.ExitError
		if !errors.As(err, &exitErr) {
			err = output.NewSystemErrorWithCause(err.Error(), err)
		}
		printer.Error(err)
		return err
	}

	return printer.Success(map[string]any{
		"status":   "ok",
		"message":  "Ran " + name,
		"rule":     rule.Title,
		"shortcut": name,
		"url":      url,
	})
}

// pickShortcut selects by 1-based number or by case-insensitive name.
func pickShortcut(shortcuts []string, selector string) (string, error) {
	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(shortcuts) {
			return "", output.NewUserError(fmt.Sprintf("no shortcut %d: the rule offers %d", n, len(shortcuts)))
		}
		return shortcuts[n-1], nil
	}
	for _, name := range shortcuts {
		if strings.EqualFold(name, selector) {
			return name, nil
		}
	}
	return "", output.NewUserError(fmt.Sprintf("shortcut %q is not offered here (offered: %s)", selector, strings.Join(shortcuts, ", ")))
}

func newLaunchRulesCmd(injected *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List launcher rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			d, err := resolveDeps(cmd, injected)
			if err != nil {
				printer.Error(err)
				return err
			}
			l, err := launcher.New(d.Settings.Launcher, d.Logger)
			if err != nil {
				uerr := output.NewUserErrorWithCause(err.Error(), err)
				printer.Error(uerr)
				return uerr
			}

			rules := l.Rules()
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"rules": rules})
			}
			rows := make([][]string, 0, len(rules))
			for _, r := range rules {
				rows = append(rows, []string{r.Title, r.Match, r.When, strings.Join(r.Shortcuts, ", ")})
			}
			printer.Table([]string{"TITLE", "MATCH", "WHEN", "SHORTCUTS"}, rows)
			return nil
		},
	}
}
