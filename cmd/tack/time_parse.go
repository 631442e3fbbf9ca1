package main

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// offsetRegex matches forward offsets like "3h", "2d", "1w".
var offsetRegex = regexp.MustCompile(`^\+?(\d+)([hdw])$`)

// parseAtValue parses a --at value into a point in time, relative to now.
// Accepts:
//   - Clock times: "07:30" (today, local time)
//   - Local datetimes: "2026-01-17T07:30"
//   - RFC 3339: "2026-01-17T07:30:00Z"
//   - Offsets: "3h", "2d", "1w" (from now)
func parseAtValue(value string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation("15:04", value, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	t, err := parseTimeValue(value, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at value %q; use a clock time (07:30), datetime (2026-01-17T07:30) or offset (3h, 2d)", value)
	}
	return t, nil
}

// parseFromValue parses a --from value into the start of a listing window.
// Dates (YYYY-MM-DD) start at local midnight.
func parseFromValue(value string, now time.Time) (time.Time, error) {
	t, err := parseTimeValue(value, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --from value %q; use a date (2026-01-17) or offset (3h, 2d, 1w)", value)
	}
	return t, nil
}

// parseTimeValue parses an offset, date or datetime.
func parseTimeValue(value string, now time.Time) (time.Time, error) {
	if matches := offsetRegex.FindStringSubmatch(value); len(matches) == 3 {
		return applyOffset(now, matches[1], matches[2])
	}

	if t, err := time.ParseInLocation("2006-01-02", value, now.Location()); err == nil {
		return t, nil
	}

	if t, err := time.ParseInLocation("2006-01-02T15:04", value, now.Location()); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time value: %s", value)
}

// applyOffset moves now forward by a numeric value and unit.
func applyOffset(now time.Time, numStr, unit string) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid offset number: %s", numStr)
	}

	switch unit {
	case "h":
		return now.Add(time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, num), nil
	case "w":
		return now.AddDate(0, 0, num*7), nil
	default:
		return time.Time{}, fmt.Errorf("unknown offset unit: %s", unit)
	}
}
