package cancel_reservation

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на отмену
type Request struct {
	Actor         domain.Actor
	ReservationID int64
	Reason        *string `validate:"omitempty,max=1000"`
}

// Response итог отмены
type Response struct {
	ReservationID   int64
	Status          string
	HoursUntilStart float64
	Percentage      int
	RefundAmount    decimal.Decimal
	CancellationFee decimal.Decimal

	// Refund заполняется, только если по брони что-то было оплачено
	Refund *RefundInfo
}

// RefundInfo созданная запись о возврате
type RefundInfo struct {
	ID              int64
	Status          string
	ReferenceNumber string
}
