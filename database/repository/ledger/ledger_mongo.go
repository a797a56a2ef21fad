package ledgerRepo

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

const availabilityColl = "availability"

// MongoLedgerRepo implements LedgerRepository against the availability
// collection: one document per (provider, date) holding the open tick set.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

func NewMongoLedgerRepo() *MongoLedgerRepo {
	return &MongoLedgerRepo{
		coll: database.MongoClient.Database(database.DBName).Collection(availabilityColl),
	}
}

func (repo *MongoLedgerRepo) GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var day models.AvailabilityDay
	err := repo.coll.FindOne(ctx, bson.M{"provider_id": providerID, "date": date}).Decode(&day)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch availability for %s on %s: %w", providerID, date, err)
	}
	return &day, nil
}

func (repo *MongoLedgerRepo) GetDays(ctx context.Context, providerID string, dates []string) (map[string][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{
		"provider_id": providerID,
		"date":        bson.M{"$in": dates},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch availability window for %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var days []models.AvailabilityDay
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("decode availability window: %w", err)
	}

	out := make(map[string][]string, len(days))
	for _, d := range days {
		out[d.Date] = d.Times
	}
	return out, nil
}

// AddTime relies on $addToSet so the open set cannot grow duplicates no
// matter how often the same tick is added.
func (repo *MongoLedgerRepo) AddTime(ctx context.Context, providerID, date, tick string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date}
	update := bson.M{
		"$addToSet":    bson.M{"times": tick},
		"$set":         bson.M{"updated_at": time.Now()},
		"$setOnInsert": bson.M{"provider_id": providerID, "date": date},
	}
	_, err := repo.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mark slot open: %w", err)
	}
	return nil
}

func (repo *MongoLedgerRepo) RemoveTime(ctx context.Context, providerID, date, tick string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date}
	update := bson.M{
		"$pull": bson.M{"times": tick},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	// No upsert: removing from an absent day is a no-op, not an error.
	_, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mark slot closed: %w", err)
	}
	return nil
}

func (repo *MongoLedgerRepo) ReplaceDay(ctx context.Context, providerID, date string, ticks []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if ticks == nil {
		ticks = []string{}
	}
	filter := bson.M{"provider_id": providerID, "date": date}
	update := bson.M{
		"$set":         bson.M{"times": ticks, "updated_at": time.Now()},
		"$setOnInsert": bson.M{"provider_id": providerID, "date": date},
	}
	_, err := repo.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace day availability: %w", err)
	}
	return nil
}
