package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/config"
	"medibook/models"
	"medibook/services/payment"
	"medibook/services/scheduling"
	"medibook/utils"
)

// BookingHandler fronts the booking arbiter for patients and providers.
type BookingHandler struct {
	Engine   scheduling.SchedulingEngine
	Payments payment.Handler
}

func NewBookingHandler(engine scheduling.SchedulingEngine, payments payment.Handler) *BookingHandler {
	return &BookingHandler{Engine: engine, Payments: payments}
}

// ReserveHandler books one open slot for the calling patient.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	patientID, ok := identityFromContext(c, "patientID")
	if !ok {
		return
	}

	var req struct {
		ProviderID  string `json:"providerId" binding:"required"`
		SlotDate    string `json:"slotDate" binding:"required"`
		SlotTime    string `json:"slotTime" binding:"required"`
		PatientName string `json:"patientName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	res, err := h.Engine.Reserve(c.Request.Context(), scheduling.ReserveInput{
		ProviderID:  req.ProviderID,
		PatientID:   patientID,
		PatientName: req.PatientName,
		Slot:        models.TimeSlot{Date: req.SlotDate, Time: req.SlotTime},
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Slot reserved", "reservation": res})
}

// CancelHandler releases an Active reservation back to availability. Both
// the booking patient and the provider may cancel.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	reservationID := c.Param("reservationID")
	if reservationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reservation ID in path"})
		return
	}
	if !h.callerOwnsReservation(c, reservationID) {
		return
	}

	res, err := h.Engine.Release(c.Request.Context(), reservationID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled, slot reopened", "reservation": res})
}

// CompleteHandler marks an appointment completed. The slot stays consumed.
func (h *BookingHandler) CompleteHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	reservationID := c.Param("reservationID")
	if reservationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reservation ID in path"})
		return
	}

	res, err := h.Engine.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if res.ProviderID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another provider"})
		return
	}

	if err := h.Engine.Complete(c.Request.Context(), reservationID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment completed"})
}

// PayHandler collects the consultation fee for a reservation.
func (h *BookingHandler) PayHandler(c *gin.Context) {
	patientID, ok := identityFromContext(c, "patientID")
	if !ok {
		return
	}

	reservationID := c.Param("reservationID")
	var req struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	res, err := h.Engine.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if res.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another patient"})
		return
	}
	if res.Payment {
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation is already paid"})
		return
	}

	invoice, err := h.Payments.ProcessPayment(c.Request.Context(), models.PaymentRequest{
		ReservationID: res.ID,
		PatientID:     patientID,
		Amount:        res.Amount,
		Currency:      config.AppConfig.PaymentCurrency,
		Method:        req.Method,
	})
	if err != nil {
		utils.GetLogger().Error("payment failed", zap.String("reservationID", res.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment failed", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// ConfirmPaymentHandler flags the reservation paid after the fee settled.
func (h *BookingHandler) ConfirmPaymentHandler(c *gin.Context) {
	patientID, ok := identityFromContext(c, "patientID")
	if !ok {
		return
	}

	reservationID := c.Param("reservationID")
	res, err := h.Engine.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if res.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another patient"})
		return
	}

	if err := h.Payments.ConfirmPayment(c.Request.Context(), reservationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed"})
}

// callerOwnsReservation authorizes a cancel request for whichever identity
// the auth middleware attached.
func (h *BookingHandler) callerOwnsReservation(c *gin.Context, reservationID string) bool {
	res, err := h.Engine.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		respondSchedulingError(c, err)
		return false
	}

	if v, exists := c.Get("patientID"); exists {
		if id, _ := v.(string); id == res.PatientID {
			return true
		}
	}
	if v, exists := c.Get("providerID"); exists {
		if id, _ := v.(string); id == res.ProviderID {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Reservation belongs to another caller"})
	return false
}
