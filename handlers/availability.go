package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medibook/models"
	"medibook/services/scheduling"
)

// AvailabilityHandler exposes the availability ledger: providers manage
// their open slots, patients read them.
type AvailabilityHandler struct {
	Svc scheduling.AvailabilityService
}

func NewAvailabilityHandler(svc scheduling.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

type slotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// GetAvailabilityHandler returns per-day open ticks for a provider, for
// patient-facing booking tooling. Open to any authenticated caller.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	if providerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing provider ID in path"})
		return
	}

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	availability, err := h.Svc.WindowAvailability(c.Request.Context(), providerID, days)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": availability})
}

// GetProviderSlotsHandler returns the calling provider's own availability.
func (h *AvailabilityHandler) GetProviderSlotsHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	availability, err := h.Svc.WindowAvailability(c.Request.Context(), providerID, 0)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": availability})
}

// AddSlotHandler marks one slot open. Repeating the call is a no-op.
func (h *AvailabilityHandler) AddSlotHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slot := models.TimeSlot{Date: req.Date, Time: req.Time}
	if err := h.Svc.MarkOpen(c.Request.Context(), providerID, slot); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot opened", "slot": slot})
}

// RemoveSlotHandler marks one slot closed. Absent slots are a no-op.
func (h *AvailabilityHandler) RemoveSlotHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slot := models.TimeSlot{Date: req.Date, Time: req.Time}
	if err := h.Svc.MarkClosed(c.Request.Context(), providerID, slot); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot closed", "slot": slot})
}

// SetDayAvailabilityHandler bulk-replaces one day's open set. Attempts to
// drop a slot with an Active reservation are rejected per slot; everything
// else in the request still applies.
func (h *AvailabilityHandler) SetDayAvailabilityHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	date := c.Param("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date in path"})
		return
	}

	var req struct {
		Times []string `json:"times"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	open, err := h.Svc.SetDayAvailability(c.Request.Context(), providerID, date, req.Times)
	if err != nil {
		// Conflict responses carry the applied set alongside the rejected
		// ticks so clients need no follow-up read.
		respondSetAvailabilityError(c, err, date, open)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "date": date, "times": open})
}
