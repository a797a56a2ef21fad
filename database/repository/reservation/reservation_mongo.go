package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

const reservationColl = "reservations"

// MongoReservationRepo implements ReservationRepository.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

func NewMongoReservationRepo() *MongoReservationRepo {
	return &MongoReservationRepo{
		coll: database.MongoClient.Database(database.DBName).Collection(reservationColl),
	}
}

func (repo *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch reservation %s: %w", id, err)
	}
	return &res, nil
}

// TransitionStatus performs the Active -> terminal flip as a single
// conditional update: the filter requires status "active", so a concurrent
// or repeated transition matches nothing instead of overwriting a terminal
// state.
func (repo *MongoReservationRepo) TransitionStatus(ctx context.Context, id, toStatus string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	set := bson.M{"status": toStatus}
	switch toStatus {
	case models.ReservationCancelled:
		set["cancelled_at"] = now
	case models.ReservationCompleted:
		set["completed_at"] = now
	default:
		return false, fmt.Errorf("illegal reservation transition to %q", toStatus)
	}

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.ReservationActive},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("transition reservation %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (repo *MongoReservationRepo) MarkPaid(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"payment": true}})
	if err != nil {
		return fmt.Errorf("mark reservation %s paid: %w", id, err)
	}
	return nil
}
