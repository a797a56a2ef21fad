package routes

import (
	"github.com/gin-gonic/gin"

	"medibook/handlers"
	"medibook/middleware"
)

// HandlerBundle carries the assembled handlers for route registration.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Appointments *handlers.AppointmentHandler
	Chat         *handlers.ChatHandler
}

// RegisterRoutes wires up the scheduling API surface.
func RegisterRoutes(r *gin.Engine, h *HandlerBundle) {
	r.GET("/health", handlers.HealthHandler)

	// Provider self-service: availability management, appointment
	// lifecycle, dashboard, messaging.
	provider := r.Group("/api/provider")
	provider.Use(middleware.JWTAuthProviderMiddleware())
	{
		provider.GET("/slots", h.Availability.GetProviderSlotsHandler)
		provider.POST("/slots", h.Availability.AddSlotHandler)
		provider.DELETE("/slots", h.Availability.RemoveSlotHandler)
		provider.PUT("/slots/:date", h.Availability.SetDayAvailabilityHandler)

		provider.GET("/appointments", h.Appointments.ProviderAppointmentsHandler)
		provider.GET("/dashboard", h.Appointments.DashboardHandler)
		provider.POST("/reservations/:reservationID/cancel", h.Booking.CancelHandler)
		provider.POST("/reservations/:reservationID/complete", h.Booking.CompleteHandler)

		provider.GET("/chat", h.Chat.ConversationsHandler)
		provider.GET("/chat/:patientID", h.Chat.MessagesHandler)
		provider.POST("/chat", h.Chat.SendMessageHandler)
	}

	// Patient-facing booking surface.
	patient := r.Group("/api/patient")
	patient.Use(middleware.JWTAuthPatientMiddleware())
	{
		patient.GET("/availability/:providerID", h.Availability.GetAvailabilityHandler)
		patient.POST("/reserve", h.Booking.ReserveHandler)
		patient.POST("/reservations/:reservationID/cancel", h.Booking.CancelHandler)
		patient.POST("/reservations/:reservationID/pay", h.Booking.PayHandler)
		patient.POST("/reservations/:reservationID/pay/confirm", h.Booking.ConfirmPaymentHandler)
		patient.GET("/appointments", h.Appointments.PatientAppointmentsHandler)
	}
}
