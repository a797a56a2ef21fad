package models

// DashboardStats is the provider dashboard summary: lifetime earnings from
// completed or paid reservations, total appointment count, distinct patient
// count, and the five most recent appointments newest-first.
type DashboardStats struct {
	Earnings           float64       `json:"earnings"`
	Appointments       int           `json:"appointments"`
	Patients           int           `json:"patients"`
	LatestAppointments []Reservation `json:"latestAppointments"`
}
