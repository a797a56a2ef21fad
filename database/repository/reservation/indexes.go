package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/models"
)

// EnsureIndexes creates the reservation indexes. The partial unique index on
// (provider_id, slot_date, slot_time) where status is "active" makes the
// no-double-booking invariant structural: even outside the arbiter's
// transaction, a second Active reservation for the same slot cannot be
// inserted.
func (repo *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "slot_date", Value: 1},
				{Key: "slot_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.ReservationActive}),
		},
		{
			Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create reservation indexes: %w", err)
	}
	return nil
}
