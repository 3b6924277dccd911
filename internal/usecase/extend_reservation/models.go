package extend_reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на продление
type Request struct {
	Actor         domain.Actor
	ReservationID int64 `validate:"required,gt=0"`
	Hours         int   `validate:"gte=1,lte=12"` // на сколько часов продлить
}

// Response модель ответа с продленным бронированием
type Response struct {
	ReservationID   int64
	Status          string
	Hours           float64
	EndTime         time.Time
	ExtensionCost   decimal.Decimal
	TotalCost       decimal.Decimal
	AmountPaid      decimal.Decimal
	AmountRemaining decimal.Decimal
}
