package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/tack/internal/output"
)

const testEvents = `events:
  - title: Old news
    calendar: Personal
    start: "2026-01-10 12:00"
  - title: Holiday
    calendar: Family
    start: "2026-01-20"
    end: "2026-01-22"
  - title: Dentist
    calendar: Personal
    start: "2026-01-17 09:30"
    end: "2026-01-17 10:00"
    location: |
      1 High Street
      Bristol
  - title: Summer
    calendar: Family
    start: "2026-07-01"
`

func calendarDeps(t *testing.T) *deps {
	t.Helper()
	d := testDeps(t, nil)
	path := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(path, []byte(testEvents), 0o600); err != nil {
		t.Fatalf("writing events: %v", err)
	}
	d.Settings.Calendar.Events = path
	d.Settings.Calendar.ProjectMap = map[string]string{"Family": "Family Plans"}
	d.Settings.Calendar.TitleMap = map[string]string{"Personal": "Me"}
	return d
}

func TestCalendarList(t *testing.T) {
	d := calendarDeps(t)

	stdout, _, err := runSub(t, newCalendarCmdInternal(d))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"Sat 17 Jan", "09:30", "Dentist", "Me 1 High Street, Bristol", "Tue 20 Jan", "all day", "Holiday"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout should contain %q:\n%s", want, stdout)
		}
	}
	for _, unwanted := range []string{"Old news", "Summer"} {
		if strings.Contains(stdout, unwanted) {
			t.Errorf("stdout should not contain %q:\n%s", unwanted, stdout)
		}
	}
}

func TestCalendarList_JSON(t *testing.T) {
	d := calendarDeps(t)

	stdout, _, err := runSub(t, newCalendarCmdInternal(d), "--json", "--days", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result struct {
		Count int `json:"count"`
		Days  []struct {
			Header string `json:"header"`
			Rows   []struct {
				Index int    `json:"index"`
				Title string `json:"title"`
			} `json:"rows"`
		} `json:"days"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if result.Count != 1 || len(result.Days) != 1 || result.Days[0].Rows[0].Title != "Dentist" {
		t.Errorf("result = %+v", result)
	}
}

func TestCalendarList_NoEventFile(t *testing.T) {
	d := testDeps(t, nil)

	_, stderr, err := runSub(t, newCalendarCmdInternal(d))
	if got := output.GetExitCode(err); got != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", got, output.ExitUserError)
	}
	if !strings.Contains(stderr, "--events") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCalendarAdd_OpensURLs(t *testing.T) {
	d := calendarDeps(t)
	opener := &recordingOpener{}
	d.Opener = opener

	stdout, _, err := runSub(t, newCalendarCmdInternal(d), "add", "2", "1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Holiday spans several days so it gives two actions.
	if len(opener.urls) != 3 {
		t.Fatalf("opened %d urls, want 3: %v", len(opener.urls), opener.urls)
	}
	if !strings.HasPrefix(opener.urls[0], "omnifocus:///add?name=Holiday%20starts%20Tue%2020%20Jan%20-%20Thu%2022%20Jan&project=Family%20Plans") {
		t.Errorf("first url = %q", opener.urls[0])
	}
	if !strings.Contains(opener.urls[2], "name=Dentist%20Sat%2017%20Jan%2009%3A30&project=Calendar&due=2026-01-17%2009%3A30&defer=2026-01-17") {
		t.Errorf("third url = %q", opener.urls[2])
	}
	if !strings.Contains(stdout, "Added Holiday ends Thu 22 Jan") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCalendarAdd_Print(t *testing.T) {
	d := calendarDeps(t)
	opener := &recordingOpener{}
	d.Opener = opener

	stdout, _, err := runSub(t, newCalendarCmdInternal(d), "add", "--all", "--print")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(opener.urls) != 0 {
		t.Errorf("--print should not open urls, got %v", opener.urls)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("printed %d lines, want 3:\n%s", len(lines), stdout)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "omnifocus:///add?") {
			t.Errorf("line = %q", line)
		}
	}
}

func TestCalendarAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"nothing selected", []string{"add"}, "specify event numbers"},
		{"both", []string{"add", "1", "--all"}, "cannot use both"},
		{"out of range", []string{"add", "9"}, `invalid event number "9": choose 1-2`},
		{"not a number", []string{"add", "x"}, `invalid event number "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := calendarDeps(t)
			_, stderr, err := runSub(t, newCalendarCmdInternal(d), tt.args...)
			if got := output.GetExitCode(err); got != output.ExitUserError {
				t.Errorf("exit code = %d, want %d", got, output.ExitUserError)
			}
			if !strings.Contains(stderr, tt.wantMsg) {
				t.Errorf("stderr %q should contain %q", stderr, tt.wantMsg)
			}
		})
	}
}
