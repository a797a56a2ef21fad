package chat

import (
	"context"

	"medibook/models"
)

// ChatService is the messaging collaborator the scheduling dashboard talks
// to. It deliberately promises nothing beyond most-recent-first listing: no
// delivery receipts, no read state, no ordering across threads.
type ChatService interface {
	ListConversations(ctx context.Context, providerID string) ([]models.Conversation, error)
	ListMessages(ctx context.Context, providerID, patientID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, providerID, patientID, sender, text string) (*models.ChatMessage, error)
}
