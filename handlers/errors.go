package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/services/scheduling"
)

// respondSchedulingError translates the scheduling error taxonomy into HTTP
// responses. Contention outcomes are 409s the client is expected to handle
// by re-querying availability; only store failures surface as 5xx.
func respondSchedulingError(c *gin.Context, err error) {
	var reserved *scheduling.ReservedSlotsError
	switch {
	case errors.As(err, &reserved):
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Some slots hold active reservations and were not closed",
			"rejectedTimes": reserved.Times,
			"date":          reserved.Date,
		})
	case errors.Is(err, scheduling.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot is outside the bookable calendar window"})
	case errors.Is(err, scheduling.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, scheduling.ErrAlreadyFinalized):
		// Benign: the reservation already reached a terminal state.
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation is already cancelled or completed"})
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is no longer available; refresh availability and pick another"})
	case errors.Is(err, scheduling.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduling store unavailable, try again shortly"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scheduling operation failed", "message": err.Error()})
	}
}

// respondSetAvailabilityError handles the bulk-replace case where the
// non-conflicting part of the day was still applied.
func respondSetAvailabilityError(c *gin.Context, err error, date string, applied []string) {
	var reserved *scheduling.ReservedSlotsError
	if errors.As(err, &reserved) {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Some slots hold active reservations and were not closed",
			"date":          date,
			"rejectedTimes": reserved.Times,
			"times":         applied,
		})
		return
	}
	respondSchedulingError(c, err)
}

// identityFromContext pulls an id set by the auth middleware.
func identityFromContext(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid identity in context"})
		return "", false
	}
	return id, true
}
