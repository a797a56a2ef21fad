package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	reservationRepo "medibook/database/repository/reservation"
	"medibook/models"
)

// Handler collects a reservation's consultation fee.
type Handler interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
	ConfirmPayment(ctx context.Context, reservationID string) error
}

// StripePaymentHandler implements Handler: card fees go through a Stripe
// PaymentIntent, cash fees are recorded as pending until the visit.
type StripePaymentHandler struct {
	Logger       *zap.Logger
	Reservations reservationRepo.ReservationRepository
}

func NewStripePaymentHandler(logger *zap.Logger, reservations reservationRepo.ReservationRepository) *StripePaymentHandler {
	return &StripePaymentHandler{Logger: logger, Reservations: reservations}
}

func (h *StripePaymentHandler) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount %.2f", req.Amount)
	}

	inv := &models.Invoice{
		InvoiceID:     uuid.New().String(),
		ReservationID: req.ReservationID,
		PatientID:     req.PatientID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		Status:        "pending",
		CreatedAt:     time.Now(),
	}

	switch req.Method {
	case "card":
		return h.processCardPayment(req, inv)
	case "cash":
		h.Logger.Info("Cash payment recorded", zap.String("invoice", inv.InvoiceID))
		return inv, nil
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", req.Method)
	}
}

// processCardPayment opens a Stripe PaymentIntent for the fee; the client
// completes it with the returned secret and then calls ConfirmPayment.
func (h *StripePaymentHandler) processCardPayment(req models.PaymentRequest, inv *models.Invoice) (*models.Invoice, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(req.Amount * 100)),
		Currency: stripe.String(req.Currency),
	}
	params.AddMetadata("reservation_id", req.ReservationID)
	params.AddMetadata("patient_id", req.PatientID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	inv.PaymentID = pi.ID
	inv.ClientSecret = pi.ClientSecret
	h.Logger.Info("Payment intent created",
		zap.String("invoice", inv.InvoiceID),
		zap.String("paymentIntent", pi.ID))
	return inv, nil
}

// ConfirmPayment flags the reservation paid once the fee has settled.
func (h *StripePaymentHandler) ConfirmPayment(ctx context.Context, reservationID string) error {
	if err := h.Reservations.MarkPaid(ctx, reservationID); err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	h.Logger.Info("Reservation marked paid", zap.String("reservationID", reservationID))
	return nil
}
