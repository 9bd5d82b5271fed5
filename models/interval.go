package models

import (
	"fmt"
	"time"
)

// TimeOfDay is a zero-padded "HH:MM" clock value. Because both fields are
// zero-padded, lexicographic comparison matches chronological order.
type TimeOfDay = string

// ValidTimeOfDay reports whether s parses as a zero-padded "HH:MM" value.
func ValidTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidDate reports whether s parses as an ISO "YYYY-MM-DD" date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// TimeInterval is a half-open [Start, End) range of a single calendar day.
type TimeInterval struct {
	Date  string    `bson:"date" json:"date"`   // "2006-01-02"
	Start TimeOfDay `bson:"start" json:"start"` // inclusive
	End   TimeOfDay `bson:"end" json:"end"`     // exclusive
}

func (ti TimeInterval) String() string {
	return fmt.Sprintf("%s [%s, %s)", ti.Date, ti.Start, ti.End)
}

// Instant resolves a date plus a clock value to a local-time instant.
func Instant(date string, t TimeOfDay) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+t, time.Local)
}

// AddMinutes shifts a clock value, capping at the edges of the day so the
// result never leaves the date: "23:59" on overflow, "00:00" on underflow.
func AddMinutes(t TimeOfDay, minutes int) TimeOfDay {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return t
	}
	shifted := parsed.Add(time.Duration(minutes) * time.Minute)
	if shifted.Day() != parsed.Day() {
		if minutes < 0 {
			return "00:00"
		}
		return "23:59"
	}
	return shifted.Format("15:04")
}

// SubMinutes shifts a clock value backward, flooring at "00:00". The boolean
// reports whether the floor was applied; callers widening a half-open window
// use it to make the day-boundary comparison inclusive.
func SubMinutes(t TimeOfDay, minutes int) (TimeOfDay, bool) {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return t, false
	}
	shifted := parsed.Add(-time.Duration(minutes) * time.Minute)
	if shifted.Day() != parsed.Day() {
		return "00:00", true
	}
	return shifted.Format("15:04"), false
}
