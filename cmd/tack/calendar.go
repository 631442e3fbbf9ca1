package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/calendar"
	"github.com/gorewood/tack/internal/output"
)

// calendarFlags holds the flags shared by the calendar subcommands.
type calendarFlags struct {
	events string
	days   int
	from   string
	print  bool
	all    bool
}

// newCalendarCmd creates the calendar command.
func newCalendarCmd() *cobra.Command {
	return newCalendarCmdInternal(nil)
}

// newCalendarCmdInternal creates the calendar command with optional
// dependency injection.
func newCalendarCmdInternal(injected *deps) *cobra.Command {
	flags := &calendarFlags{}

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Turn upcoming events into OmniFocus actions",
		Long: `List upcoming events and add them to OmniFocus as flagged actions.

Events are read from a YAML file (calendar.events or --events):

  events:
    - title: Dentist
      calendar: Personal
      start: 2026-01-17 09:30
      end: 2026-01-17 10:00
      location: 1 High Street

A timed event becomes one action due at its start. An all-day event becomes
one action due that day, or a "starts" and an "ends" action when it spans
several days. The project comes from calendar.project_map.

Examples:
  tack calendar                      # List events for the next 64 days
  tack calendar --days 7             # List the coming week
  tack calendar add 2 5              # Add events 2 and 5
  tack calendar add --all --print    # Print add URLs for every event`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalendarList(cmd, injected, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.events, "events", "", "Event file (default calendar.events)")
	cmd.PersistentFlags().IntVar(&flags.days, "days", 0, "Days ahead to list (default calendar.horizon_days)")
	cmd.PersistentFlags().StringVar(&flags.from, "from", "", "Start of the window instead of now (2026-01-17, 2d)")

	cmd.AddCommand(newCalendarAddCmd(injected, flags))

	return cmd
}

// calendarWindow loads the events in the requested window.
func calendarWindow(d *deps, flags *calendarFlags) (*calendar.Bridge, []calendar.Event, error) {
	cfg := d.Settings.Calendar
	if flags.events != "" {
		cfg.Events = flags.events
	}
	if flags.days < 0 {
		return nil, nil, output.NewUserError("--days must not be negative")
	}
	if flags.days > 0 {
		cfg.HorizonDays = flags.days
	}
	if cfg.Events == "" {
		return nil, nil, output.NewUserError("no event file: set calendar.events in the config or pass --events")
	}

	bridge, err := calendar.New(cfg)
	if err != nil {
		return nil, nil, output.NewUserErrorWithCause(err.Error(), err)
	}

	now := d.Now()
	from := now
	if flags.from != "" {
		if from, err = parseFromValue(flags.from, now); err != nil {
			return nil, nil, output.NewUserError(err.Error())
		}
	}

	all, err := calendar.LoadEvents(cfg.Events, now.Location())
	if err != nil {
		return nil, nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	events := calendar.Between(all, from, cfg.Horizon())
	d.Logger.Debug("events loaded",
		zap.String("path", cfg.Events),
		zap.Int("total", len(all)),
		zap.Int("in_window", len(events)),
	)
	return bridge, events, nil
}

// runCalendarList prints upcoming events grouped by day.
func runCalendarList(cmd *cobra.Command, injected *deps, flags *calendarFlags) error {
	printer := newPrinter(cmd)

	d, err := resolveDeps(cmd, injected)
	if err != nil {
		printer.Error(err)
		return err
	}
	bridge, events, err := calendarWindow(d, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	days := bridge.Group(events)
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"count": len(events), "days": days})
	}

	if len(days) == 0 {
		printer.Println(printer.Styles().Dim.Render("No upcoming events"))
		return nil
	}
	for i, day := range days {
		if i > 0 {
			printer.Println()
		}
		printer.Section(day.Header)
		rows := make([][]string, 0, len(day.Rows))
		for _, r := range day.Rows {
			rows = append(rows, []string{strconv.Itoa(r.Index), r.Time, r.Title, r.Detail})
		}
		printer.Table([]string{"#", "TIME", "EVENT", "DETAIL"}, rows)
	}
	return nil
}

func newCalendarAddCmd(injected *deps, flags *calendarFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [<number>...]",
		Short: "Add listed events to OmniFocus",
		Long: `Add events to OmniFocus by their number in 'tack calendar'.

Each action is sent with an omnifocus:///add URL. Use --print to write the
URLs instead of opening them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendarAdd(cmd, injected, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.print, "print", false, "Print the add URLs instead of opening them")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Add every listed event")

	return cmd
}

// runCalendarAdd sends the selected events to OmniFocus.
func runCalendarAdd(cmd *cobra.Command, injected *deps, flags *calendarFlags, args []string) error {
	printer := newPrinter(cmd)

	if len(args) == 0 && !flags.all {
		err := output.NewUserError("specify event numbers or use --all")
		printer.Error(err)
		return err
	}
	if len(args) > 0 && flags.all {
		err := output.NewUserError("cannot use both event numbers and --all")
		printer.Error(err)
		return err
	}

	d, err := resolveDeps(cmd, injected)
	if err != nil {
		printer.Error(err)
		return err
	}
	bridge, events, err := calendarWindow(d, flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	selected, err := selectEvents(events, args, flags.all)
	if err != nil {
		printer.Error(err)
		return err
	}

	var entries []calendar.Entry
	for _, ev := range selected {
		evEntries, err := bridge.Entries(ev)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause(err.Error(), err)
			printer.Error(sysErr)
			return sysErr
		}
		entries = append(entries, evEntries...)
	}

	if !flags.print {
		for _, entry := range entries {
			if err := d.Opener.Open(cmd.Context(), entry.URL()); err != nil {
				var exitErr *output.ExitError
				if !errors.As(err, &exitErr) {
					err = output.NewSystemErrorWithCause(fmt.Sprintf("adding %q: %v", entry.Name, err), err)
				}
				printer.Error(err)
				return err
			}
			d.Logger.Info("action added", zap.String("name", entry.Name), zap.String("project", entry.Project))
		}
	}

	if printer.IsJSON() {
		urls := make([]string, 0, len(entries))
		for _, entry := range entries {
			urls = append(urls, entry.URL())
		}
		return printer.WriteJSON(map[string]any{
			"status":  "ok",
			"opened":  !flags.print,
			"entries": entries,
			"urls":    urls,
		})
	}

	for _, entry := range entries {
		if flags.print {
			printer.Println(entry.URL())
			continue
		}
		printer.Print("%s %s %s\n",
			printer.Styles().Success.Render("Added"),
			entry.Name,
			printer.Styles().Dim.Render("→ "+entry.Project))
	}
	return nil
}

// selectEvents picks events by 1-based number. Repeated numbers add the
// event once.
func selectEvents(events []calendar.Event, args []string, all bool) ([]calendar.Event, error) {
	if all {
		if len(events) == 0 {
			return nil, output.NewUserError("no upcoming events")
		}
		return events, nil
	}

	seen := make(map[int]bool, len(args))
	selected := make([]calendar.Event, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(events) {
			return nil, output.NewUserError(fmt.Sprintf("invalid event number %q: choose 1-%d", arg, len(events)))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		selected = append(selected, events[n-1])
	}
	return selected, nil
}
