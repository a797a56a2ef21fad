package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	ledgerRepo "medibook/database/repository/ledger"
	schedulerRepo "medibook/database/repository/scheduler"
	"medibook/models"
	"medibook/services/catalog"
	"medibook/utils"
)

// DefaultAvailabilityService implements AvailabilityService on top of the
// ledger repository. It owns no slot state itself: the ledger collection is
// the single source of truth and every mutation is write-through. The bulk
// day replace goes through the scheduler repository because it must be
// transactional with reservation state.
type DefaultAvailabilityService struct {
	Ledger    ledgerRepo.LedgerRepository
	Scheduler schedulerRepo.SchedulerRepository
	Window    models.CalendarWindow
	Cache     *AvailabilityCache
	Now       func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListOpen returns the day's open ticks in chronological order. An empty
// result is a normal answer, not an error.
func (s *DefaultAvailabilityService) ListOpen(ctx context.Context, providerID, date string) ([]string, error) {
	if times, ok := s.Cache.get(ctx, providerID, date); ok {
		return times, nil
	}

	day, err := s.Ledger.GetDay(ctx, providerID, date)
	if err != nil {
		return nil, storeErr(err)
	}

	times := []string{}
	if day != nil {
		times = append(times, day.Times...)
	}
	catalog.SortTicks(times)
	s.Cache.set(ctx, providerID, date, times)
	return times, nil
}

func (s *DefaultAvailabilityService) MarkOpen(ctx context.Context, providerID string, slot models.TimeSlot) error {
	if !catalog.Contains(s.Window, s.now(), slot) {
		return ErrInvalidSlot
	}
	if err := s.Ledger.AddTime(ctx, providerID, slot.Date, slot.Time); err != nil {
		return storeErr(err)
	}
	s.Cache.invalidate(ctx, providerID, slot.Date)
	return nil
}

// MarkClosed is idempotent: closing an absent tick changes nothing and is
// not an error. Unlike MarkOpen it tolerates slots that have slid out of
// the window, so stale availability can always be retracted.
func (s *DefaultAvailabilityService) MarkClosed(ctx context.Context, providerID string, slot models.TimeSlot) error {
	if _, err := models.ParseSlotDate(slot.Date); err != nil {
		return ErrInvalidSlot
	}
	if _, err := models.ParseTick(slot.Time); err != nil {
		return ErrInvalidSlot
	}
	if err := s.Ledger.RemoveTime(ctx, providerID, slot.Date, slot.Time); err != nil {
		return storeErr(err)
	}
	s.Cache.invalidate(ctx, providerID, slot.Date)
	return nil
}

// SetDayAvailability bulk-replaces one day's open set. The requested list is
// the provider's full desired availability for the day; it is diffed against
// Active reservations:
//   - a reserved tick missing from the list is an attempt to drop a booked
//     slot and is rejected, reported via *ReservedSlotsError;
//   - a reserved tick present in the list means "keep" and stays out of the
//     open set, since a reserved slot is consumed, not open.
//
// Changes for all non-conflicting ticks are applied either way.
func (s *DefaultAvailabilityService) SetDayAvailability(ctx context.Context, providerID, date string, times []string) ([]string, error) {
	ref := s.now()
	for _, t := range times {
		if !catalog.Contains(s.Window, ref, models.TimeSlot{Date: date, Time: t}) {
			return nil, ErrInvalidSlot
		}
	}
	if _, err := models.ParseSlotDate(date); err != nil {
		return nil, ErrInvalidSlot
	}

	seen := make(map[string]bool, len(times))
	requested := make([]string, 0, len(times))
	for _, t := range times {
		if seen[t] {
			continue // duplicate in input; set semantics
		}
		seen[t] = true
		requested = append(requested, t)
	}

	// Diff against Active reservations and write in one transaction: the
	// reservation state is read at commit time, so a Reserve landing
	// mid-call cannot be resurrected into the open set.
	open, reserved, err := s.Scheduler.ReplaceDayAvailability(ctx, providerID, date, requested)
	if err != nil {
		return nil, storeErr(err)
	}

	var conflicts []string
	for _, t := range reserved {
		if !seen[t] {
			conflicts = append(conflicts, t)
		}
	}
	catalog.SortTicks(conflicts)
	catalog.SortTicks(open)

	s.Cache.invalidate(ctx, providerID, date)

	if len(conflicts) > 0 {
		utils.GetLogger().Warn("availability replace rejected reserved slots",
			zap.String("providerID", providerID),
			zap.String("date", date),
			zap.Strings("times", conflicts))
		return open, &ReservedSlotsError{Date: date, Times: conflicts}
	}
	return open, nil
}

// WindowAvailability returns open ticks per day over the next `days` days
// (capped at the calendar window). Days with nothing open map to empty
// lists so callers can render the full range.
func (s *DefaultAvailabilityService) WindowAvailability(ctx context.Context, providerID string, days int) (map[string][]string, error) {
	if days <= 0 || days > s.Window.DaysAhead {
		days = s.Window.DaysAhead
	}
	window := s.Window
	window.DaysAhead = days
	dates := catalog.Days(window, s.now())

	stored, err := s.Ledger.GetDays(ctx, providerID, dates)
	if err != nil {
		return nil, storeErr(err)
	}

	out := make(map[string][]string, len(dates))
	for _, d := range dates {
		times := []string{}
		times = append(times, stored[d]...)
		catalog.SortTicks(times)
		out[d] = times
	}
	return out, nil
}
