package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/location"
	"github.com/gorewood/tack/internal/output"
	"github.com/gorewood/tack/internal/prompter"
	"github.com/gorewood/tack/internal/sink"
	"github.com/gorewood/tack/internal/templates"
)

// confirmTitle heads the delivery confirmation.
const confirmTitle = "Expand Template"

// expandFlags holds the command-line flags for the expand command.
type expandFlags struct {
	file    string
	vars    []string
	policy  string
	sink    string
	outbox  string
	yes     bool
	dryRun  bool
	noInput bool
}

// newExpandCmd creates the expand command.
func newExpandCmd() *cobra.Command {
	return newExpandCmdInternal(nil)
}

// newExpandCmdInternal creates the expand command with optional dependency
// injection. Nil fields of injected are filled when the command runs.
func newExpandCmdInternal(injected *deps) *cobra.Command {
	flags := &expandFlags{}

	cmd := &cobra.Command{
		Use:   "expand [<template>]",
		Short: "Expand a template and send it to its destination",
		Long: `Expand a TaskPaper template and send it to the project named on its first line.

The template comes from, in order: the <template> argument (a name in the
template library), --file, piped stdin, or the built-in "sample" template.

Built-in placeholders DATE, TIME, DAY, MONTH and HERE are filled in
automatically. Every other ${NAME} is asked for once, unless given with --var.

Examples:
  tack expand weekly-review                  # Expand a library template
  tack expand -f trip.taskpaper -v CITY=Oslo # Expand a file with a preset
  pbpaste | tack expand                      # Expand piped text
  tack expand trip --dry-run                 # Print instead of sending
  tack expand trip --sink url                # Print the OmniFocus paste URL
  tack expand trip --json --no-input -v CITY=Oslo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(cmd, injected, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the template from a file (- for stdin)")
	cmd.Flags().StringArrayVarP(&flags.vars, "var", "v", nil, "Preset a placeholder value as NAME=value (repeatable)")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "Repeated placeholders per line: all or first (default from config)")
	cmd.Flags().StringVar(&flags.sink, "sink", "", "Delivery: omnifocus, url, file or stdout (default from config)")
	cmd.Flags().StringVar(&flags.outbox, "outbox", "", "Outbox directory for the file sink")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Deliver without asking for confirmation")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the expanded text instead of delivering it")
	cmd.Flags().BoolVar(&flags.noInput, "no-input", false, "Never prompt; unset placeholders are an error")

	return cmd
}

// runExpand executes the expand command.
func runExpand(cmd *cobra.Command, injected *deps, flags *expandFlags, args []string) error {
	printer := newPrinter(cmd)

	if len(args) > 0 && flags.file != "" {
		err := output.NewUserError("cannot use both a template name and --file")
		printer.Error(err)
		return err
	}

	d, err := resolveDeps(cmd, injected)
	if err != nil {
		printer.Error(err)
		return err
	}

	presets, err := buildPresets(d.Settings.Expand.Vars, flags.vars)
	if err != nil {
		printer.Error(err)
		return err
	}

	policy := d.Settings.Policy()
	if flags.policy != "" {
		if policy, err = expand.ParsePolicy(flags.policy); err != nil {
			uerr := output.NewUserError(err.Error())
			printer.Error(uerr)
			return uerr
		}
	}

	input, err := readExpandInput(d, flags.file, args)
	if err != nil {
		printer.Error(err)
		return err
	}
	d.Logger.Debug("template loaded", zap.String("source", input.source))

	ask, closeAsk := expandPrompter(cmd, d, flags, input.fromStdin)
	defer closeAsk()

	sinkCfg := d.Settings.Sink
	if flags.sink != "" {
		sinkCfg.Kind = flags.sink
	}
	if flags.outbox != "" {
		sinkCfg.Outbox = flags.outbox
	}
	if flags.dryRun {
		sinkCfg.Kind = sink.KindStdout
	}

	target, err := sink.New(sinkCfg, sink.Deps{
		Out:    cmd.OutOrStdout(),
		Opener: d.Opener,
		Now:    d.Now,
		Logger: d.Logger,
	})
	if err != nil {
		uerr := output.NewUserErrorWithCause(err.Error(), err)
		printer.Error(uerr)
		return uerr
	}
	delivery := target
	if sinkCfg.Confirm && !flags.yes && ask != nil && sinkCfg.Kind != sink.KindStdout {
		delivery = sink.NewConfirming(target, ask, confirmTitle)
	}

	var asker expand.Prompter
	if ask != nil {
		asker = ask
	}
	expander := expand.New(expand.Config{
		Now:      d.Now,
		Locator:  d.Locator,
		Prompter: asker,
		Presets:  presets,
		Policy:   policy,
		Logger:   d.Logger,
	})

	// JSON output already carries the text, so a dry run skips the sink.
	var result *expand.Result
	if printer.IsJSON() && sinkCfg.Kind == sink.KindStdout {
		result, err = expander.Expand(cmd.Context(), input.text)
	} else {
		result, err = expander.ExpandTo(cmd.Context(), input.text, delivery)
	}
	if err != nil {
		exitErr := classifyExpandError(err)
		printer.Error(exitErr)
		return exitErr
	}

	return outputExpandResult(printer, result, sinkCfg.Kind, target)
}

// expandInput is template text plus where it came from.
type expandInput struct {
	text      string
	source    string
	fromStdin bool
}

// readExpandInput picks the template text: named template, then --file,
// then piped stdin, then the fallback built-in.
func readExpandInput(d *deps, file string, args []string) (*expandInput, error) {
	switch {
	case len(args) > 0:
		return loadNamedTemplate(d.Library, args[0])
	case file == "-":
		return readStdinTemplate(d.Stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("reading template: %v", err), err)
		}
		return &expandInput{text: string(data), source: file}, nil
	case stdinIsPiped(d.Stdin):
		return readStdinTemplate(d.Stdin)
	default:
		return loadNamedTemplate(d.Library, templates.Fallback)
	}
}

func loadNamedTemplate(lib *templates.Library, name string) (*expandInput, error) {
	tmpl, err := lib.Load(name)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			return nil, output.NewUserError(fmt.Sprintf("template %q not found. Run 'tack templates' to list available templates", name))
		}
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	return &expandInput{text: tmpl.Content, source: tmpl.Source + ":" + tmpl.Name}, nil
}

func readStdinTemplate(r io.Reader) (*expandInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("reading stdin: "+err.Error(), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, output.NewUserError("no template text on stdin")
	}
	return &expandInput{text: string(data), source: "stdin", fromStdin: true}, nil
}

// stdinIsPiped reports whether r carries data rather than a terminal or
// the null device. Readers that are not files always count as piped.
func stdinIsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

// expandPrompter chooses how placeholders are asked for. It returns nil
// when prompting is disabled or no input is reachable. The returned func
// releases any terminal opened for prompting.
func expandPrompter(cmd *cobra.Command, d *deps, flags *expandFlags, stdinUsed bool) (prompter.Interactive, func()) {
	noop := func() {}
	if flags.noInput {
		return nil, noop
	}
	if d.Prompter != nil {
		return d.Prompter, noop
	}

	if stdinUsed {
		tty, err := prompter.OpenTerminal()
		if err != nil {
			d.Logger.Debug("no terminal for prompts", zap.Error(err))
			return nil, noop
		}
		return prompter.New(tty, tty), func() { _ = tty.Close() }
	}

	if f, ok := d.Stdin.(*os.File); ok {
		if !prompter.IsTerminal(f) {
			return nil, noop
		}
		return prompter.New(f, os.Stderr), noop
	}
	return prompter.NewLine(d.Stdin, cmd.ErrOrStderr()), noop
}

// buildPresets merges configured vars with --var flags; flags win.
func buildPresets(configured map[string]string, flagVars []string) (map[string]string, error) {
	presets := make(map[string]string, len(configured)+len(flagVars))
	for name, value := range configured {
		presets[name] = value
	}
	for _, kv := range flagVars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, output.NewUserError(fmt.Sprintf("invalid --var %q: use NAME=value", kv))
		}
		presets[name] = value
	}
	return presets, nil
}

// classifyExpandError maps pipeline failures to exit codes.
func classifyExpandError(err error) error {
	var resolveErr *expand.ResolveError
	switch {
	case errors.Is(err, expand.ErrNoDestination):
		return output.NewUserErrorWithCause(
			"template has no destination: add <<Project>> to the end of its first line", err)
	case errors.Is(err, expand.ErrCancelled):
		return output.NewCancelledError("cancelled", err)
	case errors.Is(err, sink.ErrDeclined):
		return output.NewCancelledError("not sent", err)
	case errors.As(err, &resolveErr) && errors.Is(err, expand.ErrMissingValue):
		return output.NewUserErrorWithCause(
			fmt.Sprintf("no value for ${%s}: pass --var %s=value", resolveErr.Name, resolveErr.Name), err)
	case errors.As(err, &resolveErr) && (errors.Is(err, expand.ErrNoLocator) || errors.Is(err, location.ErrUnavailable)):
		return output.NewUserErrorWithCause(
			"${HERE} needs a location: set location.provider in the config or pass --var HERE=...", err)
	default:
		return output.NewSystemErrorWithCause(err.Error(), err)
	}
}

// outputExpandResult reports a finished expansion.
func outputExpandResult(printer *output.Printer, result *expand.Result, kind string, target sink.Sink) error {
	path := ""
	if outbox, ok := target.(*sink.FileOutbox); ok {
		path = outbox.LastPath()
	}

	if printer.IsJSON() {
		data := map[string]any{
			"status":      "ok",
			"destination": result.Destination,
			"sink":        kind,
			"text":        result.Text,
			"variables":   result.Variables,
		}
		if path != "" {
			data["path"] = path
		}
		return printer.WriteJSON(data)
	}

	switch kind {
	case sink.KindStdout:
		printer.Stderr("→ %s\n", result.Destination)
	case sink.KindURL:
		// The URL is the output.
	case sink.KindFile:
		_ = printer.Success(map[string]any{"message": "Saved " + result.Destination + " to " + path})
	default:
		_ = printer.Success(map[string]any{"message": "Sent to " + result.Destination})
	}
	if names := userVariables(result.Variables); len(names) > 0 {
		printer.Stderr("%s\n", printer.Styles().Dim.Render("Variables: "+strings.Join(names, ", ")))
	}
	return nil
}

// userVariables returns the non-built-in names, sorted.
func userVariables(vars map[string]string) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if !expand.IsReserved(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
