package open_time

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// CustomerInput клиент без учетной записи, ищется по email
type CustomerInput struct {
	Name  string  `validate:"required,max=255"`
	Email string  `validate:"required,email,max=255"`
	Phone *string `validate:"omitempty,max=20"`
}

// StartRequest запуск open time на конкретном пространстве.
// Клиент задается либо CustomerID, либо Customer.
type StartRequest struct {
	Actor            domain.Actor
	SpaceID          int64          `validate:"required,gt=0"`
	CustomerID       *int64         `validate:"omitempty,gt=0"`
	Customer         *CustomerInput `validate:"required_without=CustomerID"`
	PaymentMethod    string         `validate:"omitempty,oneof=cash gcash maya bank card"`
	Pax              int            `validate:"gte=0,lte=20"`
	CustomHourlyRate *decimal.Decimal
	Notes            *string `validate:"omitempty,max=2000"`
}

// StartResponse запущенное open time
type StartResponse struct {
	ReservationID int64
	SpaceID       int64
	SpaceName     string
	CustomerID    int64
	StartTime     time.Time
	HourlyRate    decimal.Decimal
}

// EndRequest завершение open time
type EndRequest struct {
	Actor         domain.Actor
	ReservationID int64
}

// EndResponse итог open time; оплата собирается отдельно
type EndResponse struct {
	ReservationID  int64
	Status         string
	StartTime      time.Time
	EndTime        time.Time
	ElapsedMinutes int
	BilledHours    float64
	TotalCost      decimal.Decimal
	IsDiscounted   bool
}
