package calendar

import (
	"strings"
	"time"
)

// Layouts used in action names, due and defer dates.
const (
	DateLayout         = "2006-01-02"
	DateTimeLayout     = "2006-01-02 15:04"
	NiceDateLayout     = "Mon 02 Jan"
	NiceDateTimeLayout = "Mon 02 Jan 15:04"
	ClockLayout        = "15:04"
)

// SingleLine joins the lines of a multi-line location with ", ".
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Join(strings.Split(s, "\n"), ", ")
}

func sameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}
