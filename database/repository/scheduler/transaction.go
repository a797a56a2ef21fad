package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/database"
	"medibook/models"
)

const (
	availabilityColl = "availability"
	reservationColl  = "reservations"
)

// MongoSchedulerRepo implements SchedulerRepository over the availability
// and reservation collections.
type MongoSchedulerRepo struct {
	availColl *mongo.Collection
	resColl   *mongo.Collection
}

func NewMongoSchedulerRepo() *MongoSchedulerRepo {
	db := database.MongoClient.Database(database.DBName)
	return &MongoSchedulerRepo{
		availColl: db.Collection(availabilityColl),
		resColl:   db.Collection(reservationColl),
	}
}

// ReserveSlot removes the tick from the day's open set and inserts the
// reservation in one transaction. The $pull filter requires the tick to be
// present, so of two concurrent reservations for the same slot exactly one
// observes ModifiedCount 1; the loser aborts with ErrSlotNotOpen.
func (repo *MongoSchedulerRepo) ReserveSlot(ctx context.Context, res *models.Reservation) error {
	client := repo.availColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"provider_id": res.ProviderID,
			"date":        res.SlotDate,
			"times":       res.SlotTime,
		}
		update := bson.M{
			"$pull": bson.M{"times": res.SlotTime},
			"$set":  bson.M{"updated_at": time.Now()},
		}
		pulled, err := repo.availColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("close slot in ledger: %w", err)
		}
		if pulled.ModifiedCount == 0 {
			return ErrSlotNotOpen
		}

		if _, err := repo.resColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	}

	return repo.runTxn(ctx, sess, txnFn)
}

// ReleaseSlot flips the reservation Active -> Cancelled and puts the tick
// back into the open set, in one transaction. The conditional status filter
// is the terminal-state guard: a second cancel matches nothing.
func (repo *MongoSchedulerRepo) ReleaseSlot(ctx context.Context, reservationID string) (*models.Reservation, error) {
	client := repo.availColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var released models.Reservation

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		err := repo.resColl.FindOneAndUpdate(sc,
			bson.M{"id": reservationID, "status": models.ReservationActive},
			bson.M{"$set": bson.M{"status": models.ReservationCancelled, "cancelled_at": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&released)
		if err == mongo.ErrNoDocuments {
			// Distinguish unknown id from an already-terminal record.
			count, cerr := repo.resColl.CountDocuments(sc, bson.M{"id": reservationID})
			if cerr != nil {
				return fmt.Errorf("look up reservation %s: %w", reservationID, cerr)
			}
			if count == 0 {
				return ErrReservationNotFound
			}
			return ErrReservationFinalized
		}
		if err != nil {
			return fmt.Errorf("cancel reservation %s: %w", reservationID, err)
		}

		filter := bson.M{"provider_id": released.ProviderID, "date": released.SlotDate}
		update := bson.M{
			"$addToSet":    bson.M{"times": released.SlotTime},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"provider_id": released.ProviderID, "date": released.SlotDate},
		}
		if _, err := repo.availColl.UpdateOne(sc, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("reopen slot in ledger: %w", err)
		}
		return nil
	}

	if err := repo.runTxn(ctx, sess, txnFn); err != nil {
		return nil, err
	}
	return &released, nil
}

// ReplaceDayAvailability reads the day's Active reservation ticks and writes
// the filtered open set inside one transaction. A Reserve committing
// concurrently writes the same availability document, so the two
// transactions conflict instead of interleaving; the losing side surfaces a
// transient error rather than resurrecting a reserved tick.
func (repo *MongoSchedulerRepo) ReplaceDayAvailability(ctx context.Context, providerID, date string, requested []string) ([]string, []string, error) {
	client := repo.availColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var open, reserved []string

	txnFn := func(sc mongo.SessionContext) error {
		cursor, err := repo.resColl.Find(sc,
			bson.M{
				"provider_id": providerID,
				"slot_date":   date,
				"status":      models.ReservationActive,
			},
			options.Find().SetProjection(bson.M{"slot_time": 1}),
		)
		if err != nil {
			return fmt.Errorf("list active reservation times: %w", err)
		}
		var rows []struct {
			SlotTime string `bson:"slot_time"`
		}
		if err := cursor.All(sc, &rows); err != nil {
			return fmt.Errorf("decode active reservation times: %w", err)
		}

		reserved = reserved[:0]
		reservedSet := make(map[string]bool, len(rows))
		for _, r := range rows {
			reserved = append(reserved, r.SlotTime)
			reservedSet[r.SlotTime] = true
		}

		open = open[:0]
		for _, tick := range requested {
			if !reservedSet[tick] {
				open = append(open, tick)
			}
		}
		if open == nil {
			open = []string{}
		}

		filter := bson.M{"provider_id": providerID, "date": date}
		update := bson.M{
			"$set":         bson.M{"times": open, "updated_at": time.Now()},
			"$setOnInsert": bson.M{"provider_id": providerID, "date": date},
		}
		if _, err := repo.availColl.UpdateOne(sc, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("replace day availability: %w", err)
		}
		return nil
	}

	if err := repo.runTxn(ctx, sess, txnFn); err != nil {
		return nil, nil, err
	}
	return open, reserved, nil
}

func (repo *MongoSchedulerRepo) runTxn(ctx context.Context, sess mongo.Session, txnFn func(mongo.SessionContext) error) error {
	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
