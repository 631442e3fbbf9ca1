package calendar

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleEvents = `events:
  - title: Dentist
    calendar: Home
    start: 2018-10-03 09:00
    end: 2018-10-03 09:30
    location: |
      1 High Street
      Bristol
  - title: Conference
    calendar: Calendar
    start: 2018-10-08
    end: 2018-10-10
  - title: Holiday
    calendar: Home
    start: 2018-10-05
  - title: Long ago
    calendar: Home
    start: 2017-01-01 10:00
`

func testBridge(t *testing.T) *Bridge {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DefaultProject = "Home : Calendar"
	cfg.ProjectMap = map[string]string{"Calendar": "Work : Calendar"}
	cfg.TitleMap = map[string]string{"Calendar": "Work"}
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents([]byte(sampleEvents), time.UTC)
	if err != nil {
		t.Fatalf("ParseEvents() error = %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	dentist := events[0]
	if dentist.AllDay {
		t.Error("timed event parsed as all-day")
	}
	if want := time.Date(2018, 10, 3, 9, 0, 0, 0, time.UTC); !dentist.Start.Equal(want) {
		t.Errorf("start = %v, want %v", dentist.Start, want)
	}
	if dentist.Location != "1 High Street\nBristol" {
		t.Errorf("location = %q", dentist.Location)
	}

	holiday := events[2]
	if !holiday.AllDay {
		t.Error("date-only event should be all-day")
	}
	if !holiday.End.Equal(holiday.Start) {
		t.Errorf("missing end should equal start, got %v", holiday.End)
	}
}

func TestParseEventsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no title", "events:\n  - start: 2018-10-03\n", "title is required"},
		{"bad start", "events:\n  - title: x\n    start: tomorrow\n", "unrecognised time"},
		{"missing start", "events:\n  - title: x\n", "missing time"},
		{"end before start", "events:\n  - title: x\n    start: 2018-10-03\n    end: 2018-10-01\n", "end is before start"},
		{"bad yaml", "events: [", "parsing events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvents([]byte(tt.data), time.UTC)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseEvents() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseEventsAllDayOverride(t *testing.T) {
	events, err := ParseEvents([]byte("events:\n  - title: x\n    start: 2018-10-03\n    all_day: false\n"), time.UTC)
	if err != nil {
		t.Fatalf("ParseEvents() error = %v", err)
	}
	if events[0].AllDay {
		t.Error("all_day: false should win over a date-only start")
	}
}

func TestLoadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(path, []byte(sampleEvents), 0o600); err != nil {
		t.Fatal(err)
	}
	events, err := LoadEvents(path, time.UTC)
	if err != nil {
		t.Fatalf("LoadEvents() error = %v", err)
	}
	if len(events) != 4 {
		t.Errorf("got %d events, want 4", len(events))
	}

	if _, err := LoadEvents(filepath.Join(t.TempDir(), "missing.yaml"), time.UTC); err == nil {
		t.Error("LoadEvents() on missing file should fail")
	}
}

func TestBetween(t *testing.T) {
	events, err := ParseEvents([]byte(sampleEvents), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2018, 10, 3, 8, 44, 0, 0, time.UTC)

	got := Between(events, now, 64*24*time.Hour)
	var titles []string
	for _, ev := range got {
		titles = append(titles, ev.Title)
	}
	want := []string{"Dentist", "Holiday", "Conference"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("Between() mismatch (-want +got):\n%s", diff)
	}

	short := Between(events, now, 24*time.Hour)
	if len(short) != 1 || short[0].Title != "Dentist" {
		t.Errorf("Between() with 1 day horizon = %v", short)
	}
}

func TestBetweenKeepsOngoingAllDay(t *testing.T) {
	ev := Event{
		Title:  "Today",
		Start:  time.Date(2018, 10, 3, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2018, 10, 3, 0, 0, 0, 0, time.UTC),
		AllDay: true,
	}
	now := time.Date(2018, 10, 3, 15, 0, 0, 0, time.UTC)
	if got := Between([]Event{ev}, now, time.Hour); len(got) != 1 {
		t.Errorf("ongoing all-day event dropped")
	}
}

func TestEntries(t *testing.T) {
	b := testBridge(t)
	loc := time.UTC

	tests := []struct {
		name string
		ev   Event
		want []Entry
	}{
		{
			name: "timed",
			ev: Event{
				Title: "Dentist", Calendar: "Home",
				Start:    time.Date(2018, 10, 3, 9, 0, 0, 0, loc),
				End:      time.Date(2018, 10, 3, 9, 30, 0, 0, loc),
				Location: "1 High Street\nBristol",
			},
			want: []Entry{{
				Name:    "Dentist Wed 03 Oct 09:00",
				Project: "Home : Calendar",
				Due:     "2018-10-03 09:00",
				Defer:   "2018-10-03",
				Note:    "Calendar: Home\nLocation:\n1 High Street\nBristol",
			}},
		},
		{
			name: "all day single",
			ev: Event{
				Title: "Holiday", Calendar: "Home", AllDay: true,
				Start: time.Date(2018, 10, 5, 0, 0, 0, 0, loc),
				End:   time.Date(2018, 10, 5, 0, 0, 0, 0, loc),
			},
			want: []Entry{{
				Name:    "Holiday Fri 05 Oct",
				Project: "Home : Calendar",
				Due:     "2018-10-05",
				Defer:   "2018-10-05",
				Note:    "Calendar: Home\nLocation:\n",
			}},
		},
		{
			name: "all day multi",
			ev: Event{
				Title: "Conference", Calendar: "Calendar", AllDay: true,
				Start: time.Date(2018, 10, 8, 0, 0, 0, 0, loc),
				End:   time.Date(2018, 10, 10, 0, 0, 0, 0, loc),
			},
			want: []Entry{
				{
					Name:    "Conference starts Mon 08 Oct - Wed 10 Oct",
					Project: "Work : Calendar",
					Due:     "2018-10-08",
					Defer:   "2018-10-08",
					Note:    "Calendar: Work\nLocation:\n",
				},
				{
					Name:    "Conference ends Wed 10 Oct",
					Project: "Work : Calendar",
					Due:     "2018-10-10",
					Defer:   "2018-10-10",
					Note:    "Calendar: Work\nLocation:\n",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Entries(tt.ev)
			if err != nil {
				t.Fatalf("Entries() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntryURL(t *testing.T) {
	e := Entry{Name: "Dentist Wed 03 Oct 09:00", Project: "Home", Due: "2018-10-03 09:00", Defer: "2018-10-03", Note: "a\nb"}
	raw := e.URL()

	if !strings.HasPrefix(raw, "omnifocus:///add?name=Dentist%20Wed") {
		t.Errorf("URL() = %q", raw)
	}
	keys := []string{"name=", "&project=", "&due=", "&defer=", "&flag=true", "&note=", "&reveal-new-item=false"}
	last := -1
	for _, k := range keys {
		i := strings.Index(raw, k)
		if i <= last {
			t.Errorf("parameter %q out of order in %q", k, raw)
		}
		last = i
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Query().Get("note"); got != "a\nb" {
		t.Errorf("note = %q", got)
	}
}

func TestCustomNoteTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoteTemplate = "{{title}} @ {{singleline location}}"
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	note, err := b.Note(Event{Title: "Dentist", Location: "1 High St\nBristol"})
	if err != nil {
		t.Fatalf("Note() error = %v", err)
	}
	if note != "Dentist @ 1 High St, Bristol" {
		t.Errorf("Note() = %q", note)
	}
}

func TestNewRejectsBadTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoteTemplate = "{{#if}}"
	if _, err := New(cfg); err == nil {
		t.Error("New() with broken template should fail")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with broken template should fail")
	}
}

func TestGroup(t *testing.T) {
	b := testBridge(t)
	loc := time.UTC
	events := []Event{
		{Title: "Dentist", Calendar: "Home", Start: time.Date(2018, 10, 3, 9, 0, 0, 0, loc), Location: "1 High St\nBristol"},
		{Title: "Standup", Calendar: "Calendar", Start: time.Date(2018, 10, 3, 10, 0, 0, 0, loc)},
		{Title: "Holiday", Calendar: "Home", AllDay: true, Start: time.Date(2018, 10, 5, 0, 0, 0, 0, loc)},
	}
	want := []Day{
		{Header: "Wed 03 Oct", Rows: []Row{
			{Index: 1, Time: "09:00", Title: "Dentist", Detail: "Home 1 High St, Bristol"},
			{Index: 2, Time: "10:00", Title: "Standup", Detail: "Work"},
		}},
		{Header: "Fri 05 Oct", Rows: []Row{
			{Index: 3, Time: "all day", Title: "Holiday", Detail: "Home"},
		}},
	}
	if diff := cmp.Diff(want, b.Group(events)); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigHorizon(t *testing.T) {
	if got := (Config{}).Horizon(); got != 64*24*time.Hour {
		t.Errorf("default Horizon() = %v", got)
	}
	if got := (Config{HorizonDays: 7}).Horizon(); got != 7*24*time.Hour {
		t.Errorf("Horizon() = %v", got)
	}
	if err := (Config{HorizonDays: -1}).Validate(); err == nil {
		t.Error("negative horizon should fail validation")
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\r\nb\nc"); got != "a, b, c" {
		t.Errorf("SingleLine() = %q", got)
	}
}
