package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/models"
)

func (repo *MongoReservationRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"provider_id": providerID})
}

func (repo *MongoReservationRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Reservation, error) {
	return repo.list(ctx, bson.M{"patient_id": patientID})
}

// list returns matching reservations newest-first, the order every consumer
// (history views, messaging correlation) expects.
func (repo *MongoReservationRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}
	return out, nil
}
