package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeSlot is one bookable position on a provider's calendar. Identity is
// the (Date, Time) pair; the struct carries no other state.
type TimeSlot struct {
	Date string `bson:"date" json:"date"` // day key, e.g. "5_9_2026" (day_month_year)
	Time string `bson:"time" json:"time"` // tick label, e.g. "10:30 AM"
}

// AvailabilityDay is one provider-day entry in the availability ledger:
// the set of tick labels currently open for booking on that date.
type AvailabilityDay struct {
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Date       string    `bson:"date" json:"date"`
	Times      []string  `bson:"times" json:"times"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// CalendarWindow describes the bookable slot space: how many days ahead a
// provider can be booked and the daily tick grid. Loaded from configuration
// and validated there; runtime code may assume a well-formed window.
type CalendarWindow struct {
	DaysAhead       int // e.g. 30
	DayStartHour    int // first bookable hour, e.g. 10
	DayEndHour      int // exclusive end hour, e.g. 21
	SlotIntervalMin int // tick granularity in minutes, e.g. 30
}

const tickLayout = "3:04 PM"

// FormatSlotDate renders a day key in the day_month_year form, without zero
// padding ("5_9_2026").
func FormatSlotDate(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// ParseSlotDate parses a day key back into a date at midnight local time.
func ParseSlotDate(key string) (time.Time, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("malformed slot date %q", key)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("malformed slot date %q", key)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, fmt.Errorf("slot date %q out of range", key)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes overflow (e.g. 31_2_2026 becomes March); reject that.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("slot date %q is not a calendar day", key)
	}
	return t, nil
}

// FormatTick renders a tick label ("10:00 AM") from minutes past midnight.
func FormatTick(minutes int) string {
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(minutes) * time.Minute).Format(tickLayout)
}

// ParseTick parses a tick label into minutes past midnight.
func ParseTick(label string) (int, error) {
	t, err := time.Parse(tickLayout, label)
	if err != nil {
		return 0, fmt.Errorf("malformed slot time %q", label)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Start resolves the wall-clock start of a slot, provider-local.
func (s TimeSlot) Start() (time.Time, error) {
	day, err := ParseSlotDate(s.Date)
	if err != nil {
		return time.Time{}, err
	}
	mins, err := ParseTick(s.Time)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(mins) * time.Minute), nil
}
