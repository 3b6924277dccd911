package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpaceType a category of interchangeable spaces sharing one capacity pool
type SpaceType struct {
	ID          int64
	Name        string
	Description *string
	TotalSlots  int

	// AvailableSlots denormalized counter of spaces not occupied right now
	AvailableSlots            int
	DefaultPrice              decimal.Decimal
	HourlyRate                *decimal.Decimal
	PricingType               PricingType
	DefaultDiscountHours      *int
	DefaultDiscountPercentage *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rate hourly rate of the type, falling back to the default price
func (t *SpaceType) Rate() decimal.Decimal {
	if t.HourlyRate != nil {
		return *t.HourlyRate
	}
	return t.DefaultPrice
}

// Space one individually assignable unit of a space type
type Space struct {
	ID                int64
	SpaceTypeID       int64
	Name              string
	Status            SpaceStatus
	CurrentCustomerID *int64
	OccupiedFrom      *time.Time
	OccupiedUntil     *time.Time

	HourlyRate         *decimal.Decimal
	DiscountHours      *int
	DiscountPercentage *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Space) IsAvailable() bool {
	return s.Status == SpaceAvailable
}

func (s *Space) IsOccupied() bool {
	return s.Status == SpaceOccupied
}

// Occupy binds the space to a customer. Caller checks availability first.
func (s *Space) Occupy(customerID int64, from time.Time, until *time.Time) {
	s.Status = SpaceOccupied
	s.CurrentCustomerID = &customerID
	s.OccupiedFrom = &from
	s.OccupiedUntil = until
}

// Release returns the space to the pool
func (s *Space) Release() {
	s.Status = SpaceAvailable
	s.CurrentCustomerID = nil
	s.OccupiedFrom = nil
	s.OccupiedUntil = nil
}

// Occupancy one row of the occupancy projection: a running open-time
// reservation holding a space
type Occupancy struct {
	SpaceID       int64
	SpaceTypeID   int64
	ReservationID int64
	CustomerID    int64
	Since         time.Time
}
