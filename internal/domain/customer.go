package domain

import "time"

// Customer the person a reservation is billed to
type Customer struct {
	ID          int64
	UserID      *int64
	Name        string
	Email       string
	Phone       *string
	CompanyName *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerStats booking history figures used by the cash booking guard
type CustomerStats struct {
	TotalBookings      int
	CancelledBookings  int
	ActiveCashBookings int
}

// CancellationRate percentage of bookings that ended cancelled
func (s CustomerStats) CancellationRate() float64 {
	if s.TotalBookings == 0 {
		return 0
	}
	return float64(s.CancelledBookings) / float64(s.TotalBookings) * 100
}
