package calendar

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Event is a calendar entry.
type Event struct {
	Title    string    `json:"title"`
	Calendar string    `json:"calendar"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Location string    `json:"location,omitempty"`
}

type eventFile struct {
	Events []rawEvent `yaml:"events"`
}

type rawEvent struct {
	Title    string `yaml:"title"`
	Calendar string `yaml:"calendar"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	AllDay   *bool  `yaml:"all_day"`
	Location string `yaml:"location"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateTimeLayout,
}

// LoadEvents reads an event file from path. Times without a zone are read
// in loc.
func LoadEvents(path string, loc *time.Location) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	events, err := ParseEvents(data, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// ParseEvents decodes an event file:
//
//	events:
//	  - title: Dentist
//	    calendar: Home
//	    start: 2018-10-03 09:00
//	    end: 2018-10-03 09:30
//	    location: |
//	      1 High Street
//	      Bristol
//
// A start given as a bare date makes the event all-day unless all_day says
// otherwise. A missing end equals the start.
func ParseEvents(data []byte, loc *time.Location) ([]Event, error) {
	if loc == nil {
		loc = time.Local
	}
	var file eventFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	var errs []error
	events := make([]Event, 0, len(file.Events))
	for i, raw := range file.Events {
		ev, err := raw.toEvent(loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %d (%s): %w", i, raw.Title, err))
			continue
		}
		events = append(events, ev)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return events, nil
}

func (r rawEvent) toEvent(loc *time.Location) (Event, error) {
	if strings.TrimSpace(r.Title) == "" {
		return Event{}, errors.New("title is required")
	}
	start, dateOnly, err := parseTime(r.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("start: %w", err)
	}
	end := start
	if r.End != "" {
		end, _, err = parseTime(r.End, loc)
		if err != nil {
			return Event{}, fmt.Errorf("end: %w", err)
		}
		if end.Before(start) {
			return Event{}, errors.New("end is before start")
		}
	}

	allDay := dateOnly
	if r.AllDay != nil {
		allDay = *r.AllDay
	}
	return Event{
		Title:    r.Title,
		Calendar: r.Calendar,
		Start:    start,
		End:      end,
		AllDay:   allDay,
		Location: strings.TrimRight(r.Location, "\n"),
	}, nil
}

func parseTime(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, errors.New("missing time")
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised time %q", s)
}

// Between returns the events overlapping [from, from+horizon), sorted by
// start time.
func Between(events []Event, from time.Time, horizon time.Duration) []Event {
	until := from.Add(horizon)
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		end := ev.End
		if ev.AllDay {
			end = time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, end.Location())
		}
		if !end.After(from) && !ev.Start.Equal(from) {
			continue
		}
		if !ev.Start.Before(until) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
