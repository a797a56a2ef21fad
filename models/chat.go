package models

import "time"

// Message senders.
const (
	SenderProvider = "provider"
	SenderPatient  = "patient"
)

// ChatMessage is one message in a provider-patient conversation. The chat
// surface is an opaque collaborator: most-recent-first listing is the only
// ordering guarantee, and there is no delivery or read-receipt state.
type ChatMessage struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	PatientID  string    `bson:"patient_id" json:"patient_id"`
	Sender     string    `bson:"sender" json:"sender"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Conversation is a per-patient thread summary for the provider inbox.
type Conversation struct {
	PatientID   string    `bson:"patient_id" json:"patient_id"`
	LastMessage string    `bson:"last_message" json:"last_message"`
	LastSender  string    `bson:"last_sender" json:"last_sender"`
	LastAt      time.Time `bson:"last_at" json:"last_at"`
	Messages    int       `bson:"messages" json:"messages"`
}
