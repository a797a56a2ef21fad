package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	chatRepo "medibook/database/repository/chat"
	"medibook/models"
)

var ErrEmptyMessage = errors.New("message text is empty")

// DefaultChatService implements ChatService.
type DefaultChatService struct {
	Repo chatRepo.ChatRepository
	Now  func() time.Time
}

func (s *DefaultChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultChatService) ListConversations(ctx context.Context, providerID string) ([]models.Conversation, error) {
	return s.Repo.ListConversations(ctx, providerID)
}

func (s *DefaultChatService) ListMessages(ctx context.Context, providerID, patientID string) ([]models.ChatMessage, error) {
	return s.Repo.ListMessages(ctx, providerID, patientID)
}

func (s *DefaultChatService) SendMessage(ctx context.Context, providerID, patientID, sender, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if sender != models.SenderProvider && sender != models.SenderPatient {
		return nil, errors.New("unknown sender role")
	}

	msg := &models.ChatMessage{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		PatientID:  patientID,
		Sender:     sender,
		Text:       text,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
