package update_reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на изменение бронирования администратором.
// nil поля не меняются. Отмена идет через cancel_reservation, статус
// cancelled здесь недоступен.
type Request struct {
	Actor            domain.Actor
	ReservationID    int64    `validate:"required,gt=0"`
	Status           *string  `validate:"omitempty,oneof=pending on_hold confirmed active partial paid completed"`
	PaymentMethod    *string  `validate:"omitempty,oneof=cash gcash maya card bank"`
	Hours            *float64 `validate:"omitempty,gt=0,lte=12"`
	Pax              *int     `validate:"omitempty,gte=1,lte=20"`
	SpaceID          *int64   `validate:"omitempty,gt=0"`
	Notes            *string  `validate:"omitempty,max=1000"`
	StartTime        *time.Time
	AmountPaid       *decimal.Decimal
	CustomHourlyRate *decimal.Decimal
	RemoveDiscount   bool
}

// Response модель ответа с измененным бронированием
type Response struct {
	ReservationID   int64
	Status          string
	SpaceID         *int64
	StartTime       time.Time
	EndTime         *time.Time
	Hours           float64
	Pax             int
	TotalCost       decimal.Decimal
	AmountPaid      decimal.Decimal
	AmountRemaining decimal.Decimal
	IsDiscounted    bool
	Rechecked       bool // окно заново проверялось на пересечения и вместимость
}
