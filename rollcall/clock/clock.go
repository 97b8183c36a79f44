// Package clock supplies the current instant in the single civil timezone
// the whole bot runs in. Post times, event times and calendar dates are all
// wall-clock values in this zone, never UTC.
package clock

import (
	"log/slog"
	"time"
)

const fallbackZone = "America/New_York"

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type civilClock struct {
	loc *time.Location
}

// New loads the named IANA zone. An unknown name falls back to the default
// zone rather than failing startup, matching how a misconfigured deployment
// should degrade.
func New(name string) Clock {
	if name == "" {
		name = fallbackZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Error("Invalid timezone, falling back",
			slog.String("type", "sys"),
			slog.String("timezone", name),
			slog.String("fallback", fallbackZone),
			slog.Any("error", err))
		loc, _ = time.LoadLocation(fallbackZone)
	}
	return &civilClock{loc: loc}
}

func (c *civilClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c *civilClock) Location() *time.Location { return c.loc }

// Fixed returns a Clock pinned to a single instant, for tests.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time           { return c.t }
func (c fixedClock) Location() *time.Location { return c.t.Location() }

// Today truncates t to its civil date, midnight in t's location.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Weekdays lists the template keys in schedule order, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayName returns the lowercase weekday name used as the template key.
func WeekdayName(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// StartOfWeek returns Monday 00:00 of the civil week containing t. The
// current-week-setup check compares template edits against this boundary.
func StartOfWeek(t time.Time) time.Time {
	days := int(t.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7
	}
	return Today(t).AddDate(0, 0, -days)
}
