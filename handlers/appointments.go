package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/services/scheduling"
)

// AppointmentHandler serves reservation history and the provider dashboard.
type AppointmentHandler struct {
	Engine scheduling.SchedulingEngine
}

func NewAppointmentHandler(engine scheduling.SchedulingEngine) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine}
}

// ProviderAppointmentsHandler lists the provider's appointments newest-first.
func (h *AppointmentHandler) ProviderAppointmentsHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	appointments, err := h.Engine.ProviderAppointments(c.Request.Context(), providerID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// PatientAppointmentsHandler lists the patient's appointments newest-first.
func (h *AppointmentHandler) PatientAppointmentsHandler(c *gin.Context) {
	patientID, ok := identityFromContext(c, "patientID")
	if !ok {
		return
	}

	appointments, err := h.Engine.PatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// DashboardHandler returns the provider dashboard summary.
func (h *AppointmentHandler) DashboardHandler(c *gin.Context) {
	providerID, ok := identityFromContext(c, "providerID")
	if !ok {
		return
	}

	stats, err := h.Engine.Dashboard(c.Request.Context(), providerID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashData": stats})
}
