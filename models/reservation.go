package models

import "time"

// Reservation statuses. Active is the only non-terminal state.
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation binds a patient, a provider and one time slot. Records are
// append-only: cancellation and completion flip Status but never delete.
type Reservation struct {
	ID          string     `bson:"id" json:"id"`
	ProviderID  string     `bson:"provider_id" json:"provider_id"`
	PatientID   string     `bson:"patient_id" json:"patient_id"`
	PatientName string     `bson:"patient_name,omitempty" json:"patient_name,omitempty"`
	SlotDate    string     `bson:"slot_date" json:"slot_date"`
	SlotTime    string     `bson:"slot_time" json:"slot_time"`
	Amount      float64    `bson:"amount" json:"amount"`
	Payment     bool       `bson:"payment" json:"payment"`
	Status      string     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Slot returns the reservation's slot identity.
func (r Reservation) Slot() TimeSlot {
	return TimeSlot{Date: r.SlotDate, Time: r.SlotTime}
}

// Terminal reports whether the reservation has left the Active state.
func (r Reservation) Terminal() bool {
	return r.Status == ReservationCancelled || r.Status == ReservationCompleted
}

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	ReservationID string `json:"reservationId"`
	ProviderID    string `json:"providerId"`
	PatientID     string `json:"patientId"`
	SlotDate      string `json:"slotDate"`
	SlotTime      string `json:"slotTime"`
}
