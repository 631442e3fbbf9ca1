package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aymerick/raymond"

	"github.com/gorewood/tack/internal/callback"
)

// DefaultNoteTemplate is the handlebars template for action notes.
const DefaultNoteTemplate = "Calendar: {{{calendar}}}\nLocation:\n{{{location}}}"

// DefaultHorizonDays is how far ahead events are listed.
const DefaultHorizonDays = 64

// Config maps calendars to projects and display names.
type Config struct {
	// Events is the path of the YAML event file.
	Events         string            `yaml:"events" env:"TACK_CALENDAR_EVENTS"`
	DefaultProject string            `yaml:"default_project"`
	ProjectMap     map[string]string `yaml:"project_map"`
	TitleMap       map[string]string `yaml:"title_map"`
	NoteTemplate   string            `yaml:"note_template"`
	HorizonDays    int               `yaml:"horizon_days"`
}

// DefaultConfig returns the calendar defaults.
func DefaultConfig() Config {
	return Config{
		DefaultProject: "Calendar",
		ProjectMap:     map[string]string{},
		TitleMap:       map[string]string{},
		NoteTemplate:   DefaultNoteTemplate,
		HorizonDays:    DefaultHorizonDays,
	}
}

// Validate checks the horizon and note template.
func (c Config) Validate() error {
	var errs []error
	if c.HorizonDays < 0 {
		errs = append(errs, fmt.Errorf("calendar.horizon_days must not be negative, got %d", c.HorizonDays))
	}
	if c.NoteTemplate != "" {
		if _, err := raymond.Parse(c.NoteTemplate); err != nil {
			errs = append(errs, fmt.Errorf("calendar.note_template: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Horizon returns the listing window.
func (c Config) Horizon() time.Duration {
	days := c.HorizonDays
	if days == 0 {
		days = DefaultHorizonDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Entry is one OmniFocus action built from an event.
type Entry struct {
	Name    string `json:"name"`
	Project string `json:"project"`
	Due     string `json:"due"`
	Defer   string `json:"defer"`
	Note    string `json:"note"`
}

// URL returns the omnifocus:///add URL for the entry. New actions are
// flagged and not revealed.
func (e Entry) URL() string {
	return callback.New(callback.OmniFocusAdd).
		Add("name", e.Name).
		Add("project", e.Project).
		Add("due", e.Due).
		Add("defer", e.Defer).
		Add("flag", "true").
		Add("note", e.Note).
		Add("reveal-new-item", "false").
		String()
}

// Bridge converts events into entries.
type Bridge struct {
	cfg  Config
	note *raymond.Template
}

// New creates a Bridge, compiling the note template.
func New(cfg Config) (*Bridge, error) {
	src := cfg.NoteTemplate
	if src == "" {
		src = DefaultNoteTemplate
	}
	tpl, err := raymond.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing note template: %w", err)
	}
	tpl.RegisterHelper("singleline", func(s string) string {
		return SingleLine(s)
	})
	return &Bridge{cfg: cfg, note: tpl}, nil
}

// CalendarName returns the display name for a calendar.
func (b *Bridge) CalendarName(calendar string) string {
	if name, ok := b.cfg.TitleMap[calendar]; ok {
		return name
	}
	return calendar
}

// Project returns the OmniFocus project for a calendar.
func (b *Bridge) Project(calendar string) string {
	if project, ok := b.cfg.ProjectMap[calendar]; ok {
		return project
	}
	return b.cfg.DefaultProject
}

// Note renders the note for an event.
func (b *Bridge) Note(ev Event) (string, error) {
	note, err := b.note.Exec(map[string]any{
		"title":         ev.Title,
		"calendar":      b.CalendarName(ev.Calendar),
		"calendar_real": ev.Calendar,
		"location":      ev.Location,
		"start":         ev.Start.Format(DateTimeLayout),
		"end":           ev.End.Format(DateTimeLayout),
		"all_day":       ev.AllDay,
	})
	if err != nil {
		return "", fmt.Errorf("rendering note: %w", err)
	}
	return note, nil
}

// Entries builds the actions for an event:
//   - an all-day event over several days gives a "starts" and an "ends" action,
//   - an all-day event on one day gives one action due that day,
//   - a timed event gives one action due at its start time, deferred to its day.
func (b *Bridge) Entries(ev Event) ([]Entry, error) {
	note, err := b.Note(ev)
	if err != nil {
		return nil, err
	}
	project := b.Project(ev.Calendar)
	start := ev.Start.Format(DateLayout)

	switch {
	case ev.AllDay && !sameDay(ev.Start, ev.End):
		end := ev.End.Format(DateLayout)
		return []Entry{
			{
				Name:    ev.Title + " starts " + ev.Start.Format(NiceDateLayout) + " - " + ev.End.Format(NiceDateLayout),
				Project: project,
				Due:     start,
				Defer:   start,
				Note:    note,
			},
			{
				Name:    ev.Title + " ends " + ev.End.Format(NiceDateLayout),
				Project: project,
				Due:     end,
				Defer:   end,
				Note:    note,
			},
		}, nil
	case ev.AllDay:
		return []Entry{{
			Name:    ev.Title + " " + ev.Start.Format(NiceDateLayout),
			Project: project,
			Due:     start,
			Defer:   start,
			Note:    note,
		}}, nil
	default:
		return []Entry{{
			Name:    ev.Title + " " + ev.Start.Format(NiceDateTimeLayout),
			Project: project,
			Due:     ev.Start.Format(DateTimeLayout),
			Defer:   start,
			Note:    note,
		}}, nil
	}
}

// Row is one listed event.
type Row struct {
	Index  int    `json:"index"`
	Time   string `json:"time"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Day groups the rows that start on one date.
type Day struct {
	Header string `json:"header"`
	Rows   []Row  `json:"rows"`
}

// Group lays events out by start date. Row indexes are 1-based positions in
// events so they can be passed back to select an event.
func (b *Bridge) Group(events []Event) []Day {
	var days []Day
	for i, ev := range events {
		header := ev.Start.Format(NiceDateLayout)
		if len(days) == 0 || days[len(days)-1].Header != header {
			days = append(days, Day{Header: header})
		}
		clock := ev.Start.Format(ClockLayout)
		if ev.AllDay {
			clock = "all day"
		}
		detail := strings.TrimSpace(b.CalendarName(ev.Calendar) + " " + SingleLine(ev.Location))
		day := &days[len(days)-1]
		day.Rows = append(day.Rows, Row{Index: i + 1, Time: clock, Title: ev.Title, Detail: detail})
	}
	return days
}
