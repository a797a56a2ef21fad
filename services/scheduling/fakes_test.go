package scheduling

import (
	"context"
	"sync"
	"time"

	schedulerRepo "medibook/database/repository/scheduler"
	"medibook/models"
)

// In-memory doubles for the repository layer. fakeStore backs all three
// repository interfaces from one mutex-guarded state so the transactional
// coupling of ReserveSlot and ReleaseSlot can be reproduced faithfully.
type fakeStore struct {
	mu           sync.Mutex
	open         map[string]map[string]map[string]bool // provider -> date -> tick
	reservations map[string]*models.Reservation
	order        []string // reservation ids, insertion order

	failNext error // next repository call returns this and clears it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		open:         make(map[string]map[string]map[string]bool),
		reservations: make(map[string]*models.Reservation),
	}
}

func (f *fakeStore) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeStore) openSet(providerID, date string) map[string]bool {
	days, ok := f.open[providerID]
	if !ok {
		days = make(map[string]map[string]bool)
		f.open[providerID] = days
	}
	ticks, ok := days[date]
	if !ok {
		ticks = make(map[string]bool)
		days[date] = ticks
	}
	return ticks
}

// LedgerRepository

func (f *fakeStore) GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	ticks := f.open[providerID][date]
	if len(ticks) == 0 {
		return nil, nil
	}
	day := &models.AvailabilityDay{ProviderID: providerID, Date: date}
	for t := range ticks {
		day.Times = append(day.Times, t)
	}
	return day, nil
}

func (f *fakeStore) GetDays(ctx context.Context, providerID string, dates []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, d := range dates {
		ticks := f.open[providerID][d]
		if len(ticks) == 0 {
			continue
		}
		for t := range ticks {
			out[d] = append(out[d], t)
		}
	}
	return out, nil
}

func (f *fakeStore) AddTime(ctx context.Context, providerID, date, tick string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.openSet(providerID, date)[tick] = true
	return nil
}

func (f *fakeStore) RemoveTime(ctx context.Context, providerID, date, tick string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	delete(f.open[providerID][date], tick)
	return nil
}

func (f *fakeStore) ReplaceDay(ctx context.Context, providerID, date string, ticks []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	set := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		set[t] = true
	}
	f.openSet(providerID, date)
	f.open[providerID][date] = set
	return nil
}

// ReservationRepository

func (f *fakeStore) Insert(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	cp := *res
	f.reservations[res.ID] = &cp
	f.order = append(f.order, res.ID)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	res, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (f *fakeStore) ListByProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	// Newest first.
	for i := len(f.order) - 1; i >= 0; i-- {
		if r := f.reservations[f.order[i]]; r.ProviderID == providerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByPatient(ctx context.Context, patientID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	var out []models.Reservation
	for i := len(f.order) - 1; i >= 0; i-- {
		if r := f.reservations[f.order[i]]; r.PatientID == patientID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionStatus(ctx context.Context, id, toStatus string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return false, err
	}
	res, ok := f.reservations[id]
	if !ok || res.Status != models.ReservationActive {
		return false, nil
	}
	res.Status = toStatus
	now := time.Now()
	switch toStatus {
	case models.ReservationCancelled:
		res.CancelledAt = &now
	case models.ReservationCompleted:
		res.CompletedAt = &now
	}
	return true, nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	if res, ok := f.reservations[id]; ok {
		res.Payment = true
	}
	return nil
}

// SchedulerRepository

func (f *fakeStore) ReserveSlot(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	ticks := f.open[res.ProviderID][res.SlotDate]
	if !ticks[res.SlotTime] {
		return schedulerRepo.ErrSlotNotOpen
	}
	delete(ticks, res.SlotTime)
	cp := *res
	f.reservations[res.ID] = &cp
	f.order = append(f.order, res.ID)
	return nil
}

func (f *fakeStore) ReleaseSlot(ctx context.Context, reservationID string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	res, ok := f.reservations[reservationID]
	if !ok {
		return nil, schedulerRepo.ErrReservationNotFound
	}
	if res.Status != models.ReservationActive {
		return nil, schedulerRepo.ErrReservationFinalized
	}
	res.Status = models.ReservationCancelled
	now := time.Now()
	res.CancelledAt = &now
	f.openSet(res.ProviderID, res.SlotDate)[res.SlotTime] = true
	cp := *res
	return &cp, nil
}

// ReplaceDayAvailability mirrors the transactional semantics: the Active
// reservation diff and the ledger overwrite happen under one lock, so a
// concurrent reserve is either fully before or fully after the replace.
func (f *fakeStore) ReplaceDayAvailability(ctx context.Context, providerID, date string, requested []string) ([]string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, nil, err
	}

	var reserved []string
	reservedSet := make(map[string]bool)
	for _, r := range f.reservations {
		if r.ProviderID == providerID && r.SlotDate == date && r.Status == models.ReservationActive {
			reserved = append(reserved, r.SlotTime)
			reservedSet[r.SlotTime] = true
		}
	}

	open := []string{}
	set := make(map[string]bool, len(requested))
	for _, t := range requested {
		if !reservedSet[t] {
			open = append(open, t)
			set[t] = true
		}
	}
	f.openSet(providerID, date)
	f.open[providerID][date] = set
	return open, reserved, nil
}

// test fixtures

var testWindow = models.CalendarWindow{
	DaysAhead:       30,
	DayStartHour:    10,
	DayEndHour:      21,
	SlotIntervalMin: 30,
}

var testRef = time.Date(2026, 9, 5, 8, 0, 0, 0, time.Local)

func newTestEngine(store *fakeStore) *DefaultSchedulingEngine {
	eng := NewDefaultSchedulingEngine(store, store, testWindow, 50)
	eng.Now = func() time.Time { return testRef }
	return eng
}

func newTestAvailability(store *fakeStore) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		Ledger:    store,
		Scheduler: store,
		Window:    testWindow,
		Now:       func() time.Time { return testRef },
	}
}
