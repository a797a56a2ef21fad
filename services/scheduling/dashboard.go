package scheduling

import (
	"context"

	"medibook/models"
)

const latestAppointmentsLimit = 5

// Dashboard summarizes a provider's booking history: earnings from
// completed or paid reservations, total appointment count, distinct
// patients, and the most recent appointments.
func (se *DefaultSchedulingEngine) Dashboard(ctx context.Context, providerID string) (*models.DashboardStats, error) {
	all, err := se.Reservations.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, storeErr(err)
	}

	stats := &models.DashboardStats{Appointments: len(all)}
	patients := make(map[string]bool)
	for _, r := range all {
		if r.Status == models.ReservationCompleted || r.Payment {
			stats.Earnings += r.Amount
		}
		patients[r.PatientID] = true
	}
	stats.Patients = len(patients)

	// ListByProvider is newest-first already.
	n := latestAppointmentsLimit
	if len(all) < n {
		n = len(all)
	}
	stats.LatestAppointments = all[:n]
	return stats, nil
}
