package models

import "time"

// PaymentRequest asks the payment handler to collect a reservation's
// consultation fee.
type PaymentRequest struct {
	ReservationID string  `json:"reservationId"`
	PatientID     string  `json:"patientId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Method        string  `json:"method"` // "card" or "cash"
}

// Invoice is the outcome of a payment attempt. Card payments carry the
// Stripe PaymentIntent id; cash invoices stay pending until the visit.
type Invoice struct {
	InvoiceID     string    `bson:"invoice_id" json:"invoice_id"`
	ReservationID string    `bson:"reservation_id" json:"reservation_id"`
	PatientID     string    `bson:"patient_id" json:"patient_id"`
	Amount        float64   `bson:"amount" json:"amount"`
	Currency      string    `bson:"currency" json:"currency"`
	Method        string    `bson:"method" json:"method"`
	PaymentID     string    `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	ClientSecret  string    `bson:"-" json:"client_secret,omitempty"`
	Status        string    `bson:"status" json:"status"` // "pending" or "paid"
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
