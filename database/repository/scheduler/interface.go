package schedulerRepo

import (
	"context"
	"errors"

	"medibook/models"
)

// Sentinel outcomes of the transactional slot operations. The scheduling
// engine translates these into its public error taxonomy.
var (
	// ErrSlotNotOpen means the ledger did not list the slot as open at
	// commit time: never opened, or claimed by a concurrent reservation.
	ErrSlotNotOpen = errors.New("slot not open in availability ledger")
	// ErrReservationNotFound means no reservation exists with the given id.
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrReservationFinalized means the reservation exists but has already
	// reached a terminal status.
	ErrReservationFinalized = errors.New("reservation already finalized")
)

// SchedulerRepository couples the availability ledger and the reservation
// store inside one transaction so "slot closed" and "reservation created"
// can never diverge.
type SchedulerRepository interface {
	// ReserveSlot atomically removes the slot from the open set and inserts
	// the Active reservation. Fails with ErrSlotNotOpen when the slot is not
	// currently open; on any failure nothing is applied.
	ReserveSlot(ctx context.Context, res *models.Reservation) error
	// ReleaseSlot atomically flips an Active reservation to Cancelled and
	// re-opens its slot in the ledger. Returns the updated record.
	ReleaseSlot(ctx context.Context, reservationID string) (*models.Reservation, error)
	// ReplaceDayAvailability overwrites a day's open set with the requested
	// ticks minus any carrying an Active reservation, diff and write in one
	// transaction so a concurrently committed reservation cannot slip back
	// into the open set. Returns the stored open set (in requested order)
	// and the reserved ticks observed at commit time.
	ReplaceDayAvailability(ctx context.Context, providerID, date string, requested []string) (open, reserved []string, err error)
}
