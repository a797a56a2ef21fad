package chatRepo

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

const messageColl = "messages"

// MongoChatRepo implements ChatRepository.
type MongoChatRepo struct {
	coll *mongo.Collection
}

func NewMongoChatRepo() *MongoChatRepo {
	return &MongoChatRepo{
		coll: database.MongoClient.Database(database.DBName).Collection(messageColl),
	}
}

func (repo *MongoChatRepo) Insert(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (repo *MongoChatRepo) ListMessages(ctx context.Context, providerID, patientID string) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx,
		bson.M{"provider_id": providerID, "patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.ChatMessage
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return out, nil
}

// ListConversations groups the provider's messages per patient and keeps the
// latest message of each thread, newest thread first.
func (repo *MongoChatRepo) ListConversations(ctx context.Context, providerID string) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"provider_id": providerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$patient_id",
			"last_message": bson.M{"$first": "$text"},
			"last_sender":  bson.M{"$first": "$sender"},
			"last_at":      bson.M{"$first": "$created_at"},
			"messages":     bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"patient_id":   "$_id",
			"last_message": 1,
			"last_sender":  1,
			"last_at":      1,
			"messages":     1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_at", Value: -1}}}},
	}

	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Conversation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return out, nil
}
