package launcher

import (
	"fmt"
	"strings"
	"time"
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day types.
const (
	Weekday = "Weekday"
	Weekend = "Weekend"
)

// Context describes where and when a launch happens.
type Context struct {
	Place    string `json:"place"`
	DayType  string `json:"day_type"`
	Day      string `json:"day"`
	AMPM     string `json:"ampm"`
	HourType string `json:"hour_type"`
	Hour     string `json:"hour"`
}

// NewContext derives the time fields from t.
func NewContext(place string, t time.Time) Context {
	wd := t.Weekday()
	dayType := Weekday
	if wd == time.Saturday || wd == time.Sunday {
		dayType = Weekend
	}
	ampm := "am"
	if t.Hour() >= 12 {
		ampm = "pm"
	}
	return Context{
		Place:    place,
		DayType:  dayType,
		Day:      dayNames[wd],
		AMPM:     ampm,
		HourType: HourType(t.Hour()),
		Hour:     fmt.Sprintf("%02d", t.Hour()),
	}
}

// HourType names the part of the day an hour (0-23) falls in.
func HourType(hour int) string {
	switch {
	case hour == 0, hour >= 22:
		return "Late"
	case hour <= 4:
		return "Night"
	case hour <= 8:
		return "Early"
	case hour <= 11:
		return "Morning"
	case hour == 12:
		return "Lunchtime"
	case hour <= 17:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// Key renders the context as "place,dayType,day,ampm,hourType,hour",
// e.g. "Home,Weekday,Fri,am,Morning,09".
func (c Context) Key() string {
	return strings.Join([]string{c.Place, c.DayType, c.Day, c.AMPM, c.HourType, c.Hour}, ",")
}

func (c Context) vars() map[string]any {
	return map[string]any{
		"place":     c.Place,
		"day_type":  c.DayType,
		"day":       c.Day,
		"ampm":      c.AMPM,
		"hour_type": c.HourType,
		"hour":      c.Hour,
	}
}
