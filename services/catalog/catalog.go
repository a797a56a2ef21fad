package catalog

import (
	"sort"
	"time"

	"medibook/models"
)

// The slot catalog enumerates the full candidate slot space reachable from a
// calendar window: every (day, tick) pair a provider could possibly open.
// It is a pure function of the window and the reference date; nothing here
// is cached or stateful, and a well-formed window (config validates at load)
// means no operation can fail.

// Days returns the day keys for the bookable range starting at ref.
func Days(w models.CalendarWindow, ref time.Time) []string {
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	out := make([]string, 0, w.DaysAhead)
	for i := 0; i < w.DaysAhead; i++ {
		out = append(out, models.FormatSlotDate(start.AddDate(0, 0, i)))
	}
	return out
}

// Ticks returns the daily tick labels in chronological order.
func Ticks(w models.CalendarWindow) []string {
	var out []string
	for m := w.DayStartHour * 60; m < w.DayEndHour*60; m += w.SlotIntervalMin {
		out = append(out, models.FormatTick(m))
	}
	return out
}

// Enumerate returns every slot in the window, day ascending then
// time-of-day ascending.
func Enumerate(w models.CalendarWindow, ref time.Time) []models.TimeSlot {
	ticks := Ticks(w)
	var out []models.TimeSlot
	for _, day := range Days(w, ref) {
		for _, tick := range ticks {
			out = append(out, models.TimeSlot{Date: day, Time: tick})
		}
	}
	return out
}

// Contains reports whether the slot lies inside the enumerable space for
// the window as seen from ref.
func Contains(w models.CalendarWindow, ref time.Time, slot models.TimeSlot) bool {
	day, err := models.ParseSlotDate(slot.Date)
	if err != nil {
		return false
	}
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	if day.Before(start) || !day.Before(start.AddDate(0, 0, w.DaysAhead)) {
		return false
	}

	mins, err := models.ParseTick(slot.Time)
	if err != nil {
		return false
	}
	if mins < w.DayStartHour*60 || mins >= w.DayEndHour*60 {
		return false
	}
	return (mins-w.DayStartHour*60)%w.SlotIntervalMin == 0
}

// SortTicks orders tick labels chronologically in place. Lexical order is
// wrong for 12-hour labels ("1:00 PM" sorts before "10:00 AM"), so sorting
// goes through minutes past midnight.
func SortTicks(ticks []string) {
	sort.Slice(ticks, func(i, j int) bool {
		mi, erri := models.ParseTick(ticks[i])
		mj, errj := models.ParseTick(ticks[j])
		if erri != nil || errj != nil {
			return ticks[i] < ticks[j]
		}
		return mi < mj
	})
}
