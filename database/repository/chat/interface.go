package chatRepo

import (
	"context"

	"medibook/models"
)

// ChatRepository stores provider-patient messages. Listing is
// most-recent-first; no delivery or read state is tracked.
type ChatRepository interface {
	Insert(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, providerID, patientID string) ([]models.ChatMessage, error)
	ListConversations(ctx context.Context, providerID string) ([]models.Conversation, error)
}
