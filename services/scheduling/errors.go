package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// Public error taxonomy of the scheduling core. Handlers match these with
// errors.Is and translate them to HTTP statuses.
var (
	// ErrInvalidSlot: the slot lies outside the catalog's enumerable space
	// (or does not parse). A caller bug; not retriable.
	ErrInvalidSlot = errors.New("slot outside the bookable calendar window")
	// ErrSlotUnavailable: the slot was not open at evaluation time. The
	// expected contention outcome; callers re-query availability and pick
	// another slot.
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrAlreadyFinalized: idempotency guard on terminal reservation states.
	// Benign; the record is already cancelled or completed.
	ErrAlreadyFinalized = errors.New("reservation already finalized")
	// ErrNotFound: unknown reservation id.
	ErrNotFound = errors.New("reservation not found")
	// ErrStoreUnavailable: backing store I/O failure. Transient; safe to
	// retry with backoff.
	ErrStoreUnavailable = errors.New("scheduling store unavailable")
)

// ReservedSlotsError reports ticks a bulk availability replace could not
// close because each carries an Active reservation. The non-conflicting part
// of the replace has still been applied.
type ReservedSlotsError struct {
	Date  string
	Times []string
}

func (e *ReservedSlotsError) Error() string {
	return fmt.Sprintf("slots %s on %s hold active reservations and were not closed",
		strings.Join(e.Times, ", "), e.Date)
}

// Unwrap ties the conflict into the contention branch of the taxonomy.
func (e *ReservedSlotsError) Unwrap() error {
	return ErrSlotUnavailable
}

// storeErr brands a repository failure as transient so callers can tell
// "try another slot" from "try again later".
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
