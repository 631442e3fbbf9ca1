// Package output renders command results for people and for tools.
//
// Every tack command writes through a Printer. With --json the printer emits
// one JSON document per result and errors become {"error": "...", "code": N};
// otherwise it renders styled text, falling back to plain text when stdout is
// not a terminal:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, useColor(cmd))
//	printer.Section("Placeholders")
//	printer.Table([]string{"NAME", "SOURCE"}, rows)
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, unknown template, no destination
//	output.ExitSystemError // 2: location lookup, opener or file failures
//	output.ExitConflict    // 3: refusing to overwrite existing state
//	output.ExitCancelled   // 4: a prompt or confirmation was dismissed
//
// Commands build errors with NewUserError, NewSystemError,
// NewSystemErrorWithCause, NewConflictError and NewCancelledError, print
// them with Printer.Error and return them so main can exit with
// GetExitCode(err).
package output
