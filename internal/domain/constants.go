package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusOnHold    ReservationStatus = "on_hold"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusActive    ReservationStatus = "active"
	StatusPartial   ReservationStatus = "partial"
	StatusPaid      ReservationStatus = "paid"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentMethod how the customer pays for a reservation
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGCash PaymentMethod = "gcash"
	PaymentMaya  PaymentMethod = "maya"
	PaymentBank  PaymentMethod = "bank"
	PaymentCard  PaymentMethod = "card"
)

// PricingType is informational: cost is always hours x rate
type PricingType string

const (
	PricingPerPerson      PricingType = "per_person"
	PricingPerReservation PricingType = "per_reservation"
)

// SpaceStatus cached occupancy state of a physical space
type SpaceStatus string

const (
	SpaceAvailable   SpaceStatus = "available"
	SpaceOccupied    SpaceStatus = "occupied"
	SpaceMaintenance SpaceStatus = "maintenance"
)

// Booking limits
const (
	MinBookingHours = 1
	MaxBookingHours = 12
	MinPax          = 1
	MaxPax          = 20

	// CashHoldDuration how long an unpaid cash booking keeps its slot
	CashHoldDuration = time.Hour

	// OpenWindowProbe length assumed for a window without an end when
	// checking it against bounded reservations
	OpenWindowProbe = time.Minute
)

// InactiveStatuses statuses that do not consume capacity
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
}

// AllStatuses every known reservation status
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusOnHold,
	StatusConfirmed,
	StatusActive,
	StatusPartial,
	StatusPaid,
	StatusCompleted,
	StatusCancelled,
}

// PublicPaymentMethods methods a customer may choose when booking online
var PublicPaymentMethods = []PaymentMethod{PaymentCash, PaymentGCash, PaymentMaya}

// IsValid reports whether s is a known status
func (s ReservationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentGCash, PaymentMaya, PaymentBank, PaymentCard:
		return true
	}
	return false
}

// IsInstant reports whether the method settles at booking time
func (m PaymentMethod) IsInstant() bool {
	return m == PaymentGCash || m == PaymentMaya
}
