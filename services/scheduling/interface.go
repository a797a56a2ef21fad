package scheduling

import (
	"context"

	"medibook/models"
)

// AvailabilityService exposes the availability ledger to providers and to
// patient-facing booking tooling.
type AvailabilityService interface {
	ListOpen(ctx context.Context, providerID, date string) ([]string, error)
	MarkOpen(ctx context.Context, providerID string, slot models.TimeSlot) error
	MarkClosed(ctx context.Context, providerID string, slot models.TimeSlot) error
	// SetDayAvailability bulk-replaces one day's open set. The returned
	// slice is the day's open set after the call; a *ReservedSlotsError
	// reports ticks that were rejected because of Active reservations.
	SetDayAvailability(ctx context.Context, providerID, date string, times []string) ([]string, error)
	// WindowAvailability returns per-day open sets for the next `days` days.
	WindowAvailability(ctx context.Context, providerID string, days int) (map[string][]string, error)
}

// SchedulingEngine is the booking arbiter: the only component that couples
// ledger mutation with reservation lifecycle.
type SchedulingEngine interface {
	Reserve(ctx context.Context, in ReserveInput) (*models.Reservation, error)
	Release(ctx context.Context, reservationID string) (*models.Reservation, error)
	Complete(ctx context.Context, reservationID string) error
	GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error)
	ProviderAppointments(ctx context.Context, providerID string) ([]models.Reservation, error)
	PatientAppointments(ctx context.Context, patientID string) ([]models.Reservation, error)
	Dashboard(ctx context.Context, providerID string) (*models.DashboardStats, error)
}

// ReserveInput carries one reservation request.
type ReserveInput struct {
	ProviderID  string
	PatientID   string
	PatientName string
	Slot        models.TimeSlot
}

// ReminderScheduler enqueues an appointment reminder for a fresh
// reservation. Implemented by the asynq-backed worker client.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, res *models.Reservation) error
}
