package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

type fakeChatRepo struct {
	messages []models.ChatMessage
}

func (f *fakeChatRepo) Insert(ctx context.Context, msg *models.ChatMessage) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, providerID, patientID string) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.ProviderID == providerID && m.PatientID == patientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) ListConversations(ctx context.Context, providerID string) ([]models.Conversation, error) {
	counts := make(map[string]int)
	for _, m := range f.messages {
		if m.ProviderID == providerID {
			counts[m.PatientID]++
		}
	}
	seen := make(map[string]bool)
	var out []models.Conversation
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.ProviderID != providerID || seen[m.PatientID] {
			continue
		}
		seen[m.PatientID] = true
		out = append(out, models.Conversation{
			PatientID:   m.PatientID,
			LastMessage: m.Text,
			LastSender:  m.Sender,
			LastAt:      m.CreatedAt,
			Messages:    counts[m.PatientID],
		})
	}
	return out, nil
}

func TestSendMessage(t *testing.T) {
	now := time.Date(2026, 9, 5, 14, 0, 0, 0, time.UTC)
	repo := &fakeChatRepo{}
	svc := &DefaultChatService{Repo: repo, Now: func() time.Time { return now }}

	msg, err := svc.SendMessage(context.Background(), "prov-1", "pat-1", models.SenderProvider, "  Hello there  ")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "Hello there", msg.Text)
	assert.Equal(t, models.SenderProvider, msg.Sender)
	assert.Equal(t, now, msg.CreatedAt)
	require.Len(t, repo.messages, 1)
}

func TestSendMessageEmpty(t *testing.T) {
	svc := &DefaultChatService{Repo: &fakeChatRepo{}}

	_, err := svc.SendMessage(context.Background(), "prov-1", "pat-1", models.SenderPatient, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendMessageUnknownSender(t *testing.T) {
	svc := &DefaultChatService{Repo: &fakeChatRepo{}}

	_, err := svc.SendMessage(context.Background(), "prov-1", "pat-1", "intruder", "hi")
	assert.Error(t, err)
}

func TestListMessages(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := &DefaultChatService{Repo: repo}

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.SendMessage(context.Background(), "prov-1", "pat-1", models.SenderPatient, text)
		require.NoError(t, err)
	}
	_, err := svc.SendMessage(context.Background(), "prov-1", "pat-2", models.SenderPatient, "other thread")
	require.NoError(t, err)

	msgs, err := svc.ListMessages(context.Background(), "prov-1", "pat-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "third", msgs[0].Text, "listing is most-recent-first")
}

func TestListConversations(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := &DefaultChatService{Repo: repo}

	_, err := svc.SendMessage(context.Background(), "prov-1", "pat-1", models.SenderPatient, "hello")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "prov-1", "pat-1", models.SenderProvider, "hi back")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "prov-1", "pat-2", models.SenderPatient, "new here")
	require.NoError(t, err)

	convs, err := svc.ListConversations(context.Background(), "prov-1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "pat-2", convs[0].PatientID)
	assert.Equal(t, "hi back", convs[1].LastMessage)
	assert.Equal(t, 2, convs[1].Messages)
}
