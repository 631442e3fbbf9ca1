package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/tack/internal/output"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version  string         `json:"version"`
	Core     []checkResult  `json:"core"`
	Delivery []checkResult  `json:"delivery"`
	Context  []checkResult  `json:"context"`
	Summary  *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// doctorFlags holds the command-line flags for the doctor command.
type doctorFlags struct {
	fix   bool
	quiet bool
}

// newDoctorCmd creates the doctor command.
func newDoctorCmd() *cobra.Command {
	return newDoctorCmdInternal(nil)
}

// newDoctorCmdInternal creates the doctor command with optional dependency
// injection.
func newDoctorCmdInternal(injected *deps) *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check installation health and suggest fixes",
		Long: `Check tack installation health and suggest fixes.

Runs a series of health checks across three categories:
  CORE     - Settings file and template library
  DELIVERY - URL opener, outbox and location provider
  CONTEXT  - Launcher rules and calendar event file

Each check reports:
  Pass    - Check passed successfully
  Warning - Non-critical issue found
  Fail    - Critical issue that needs attention

Examples:
  tack doctor              # Run all health checks
  tack doctor --fix        # Create the settings file and outbox if missing
  tack doctor --quiet      # Only show failures and warnings
  tack doctor --json       # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, injected, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.fix, "fix", false, "Auto-fix what can be fixed (settings file, outbox)")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

// runDoctor executes the doctor command. An unreadable settings file is
// reported as a failed check rather than aborting the run.
func runDoctor(cmd *cobra.Command, injected *deps, flags *doctorFlags) error {
	printer := newPrinter(cmd)

	env := newDoctorEnv(cmd, injected)
	result := gatherDoctorChecks(env, flags)

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}

	outputDoctorHuman(printer, result, flags.quiet)
	return nil
}

// gatherDoctorChecks runs all health checks and returns results.
func gatherDoctorChecks(env *doctorEnv, flags *doctorFlags) *doctorResult {
	result := &doctorResult{
		Version:  version,
		Core:     runCoreChecks(env, flags),
		Delivery: runDeliveryChecks(env, flags),
		Context:  runContextChecks(env),
		Summary:  &doctorSummary{},
	}

	allChecks := append(append(append([]checkResult{}, result.Core...), result.Delivery...), result.Context...)
	for _, check := range allChecks {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	return result
}

// outputDoctorHuman outputs the doctor result in human-readable format.
func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("tack doctor %s\n", result.Version)

	printCheckSection(printer, "CORE", result.Core, quiet)
	printCheckSection(printer, "DELIVERY", result.Delivery, quiet)
	printCheckSection(printer, "CONTEXT", result.Context, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(printer, checkPass), result.Summary.Passed,
		statusIcon(printer, checkWarn), result.Summary.Warnings,
		statusIcon(printer, checkFail), result.Summary.Failed,
	)
}

// printCheckSection prints a section of checks.
func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet {
		hasNonPass := false
		for _, check := range checks {
			if check.Status != checkPass {
				hasNonPass = true
				break
			}
		}
		if !hasNonPass {
			return
		}
	}

	printer.Println()
	printer.Println(printer.Styles().Bold.Render(title))

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}

		printer.Print("  %s  %s %s\n", statusIcon(printer, check.Status), check.Name, printer.Styles().Dim.Render(check.Message))
		if check.Hint != "" {
			printer.Print("     -> %s\n", check.Hint)
		}
	}
}

// statusIcon returns the styled icon for a check status.
func statusIcon(printer *output.Printer, status checkStatus) string {
	styles := printer.Styles()
	switch status {
	case checkPass:
		return styles.Success.Render("ok")
	case checkWarn:
		return styles.Warning.Render("!!")
	case checkFail:
		return styles.Error.Render("XX")
	default:
		return "??"
	}
}
