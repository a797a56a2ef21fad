package ledgerRepo

import (
	"context"

	"medibook/models"
)

// LedgerRepository persists the per-provider per-day open slot sets. All
// mutations are synchronous write-through: when a call returns nil the
// change is durable and visible to subsequent reads.
type LedgerRepository interface {
	// GetDay returns the ledger entry for one provider-day, or nil when the
	// provider has never opened a slot on that day.
	GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error)
	// GetDays returns open tick sets keyed by date for the requested dates.
	// Days without an entry are absent from the map.
	GetDays(ctx context.Context, providerID string, dates []string) (map[string][]string, error)
	// AddTime adds one tick to a day's open set. Idempotent.
	AddTime(ctx context.Context, providerID, date, tick string) error
	// RemoveTime removes one tick from a day's open set. Idempotent.
	RemoveTime(ctx context.Context, providerID, date, tick string) error
	// ReplaceDay overwrites a day's open set wholesale.
	ReplaceDay(ctx context.Context, providerID, date string, ticks []string) error
}
