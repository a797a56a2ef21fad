package reservationRepo

import (
	"context"

	"medibook/models"
)

// ReservationRepository is the append-only appointment record store.
// Status transitions go through conditional updates so the terminal-state
// guard is enforced by the store itself, never by read-then-write.
type ReservationRepository interface {
	Insert(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// ListByProvider and ListByPatient return records newest-first.
	ListByProvider(ctx context.Context, providerID string) ([]models.Reservation, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Reservation, error)
	// TransitionStatus flips an Active reservation into the given terminal
	// status. Returns (false, nil) when the reservation exists but is no
	// longer Active.
	TransitionStatus(ctx context.Context, id, toStatus string) (bool, error)
	// MarkPaid sets the payment flag on a reservation.
	MarkPaid(ctx context.Context, id string) error
}
