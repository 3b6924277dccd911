package create_reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// CustomerInput контактные данные клиента; клиент ищется по email
type CustomerInput struct {
	Name        string  `validate:"required,max=255"`
	Email       string  `validate:"required,email,max=255"`
	Phone       *string `validate:"omitempty,max=20"`
	CompanyName *string `validate:"omitempty,max=255"`
}

// Request модель запроса на создание бронирования
type Request struct {
	Actor domain.Actor

	SpaceTypeID   int64      `validate:"required,gt=0"`
	SpaceID       *int64     `validate:"omitempty,gt=0"` // конкретное пространство вместо пула
	PaymentMethod string     `validate:"required,oneof=cash gcash maya bank card"`
	Hours         float64    `validate:"gte=1,lte=12"`   // 0 означает 1 час
	Pax           int        `validate:"gte=1,lte=20"`   // 0 означает 1 человек
	StartTime     *time.Time // nil или прошлое время заменяется текущим
	Notes         *string    `validate:"omitempty,max=2000"`

	// CustomHourlyRate ручная ставка, только для администратора
	CustomHourlyRate *decimal.Decimal

	Customer CustomerInput
}

// Response модель ответа с созданным бронированием
type Response struct {
	ReservationID int64
	Status        string
	TotalCost     decimal.Decimal
	AmountPaid    decimal.Decimal
	SpaceTypeName string
	SpaceName     *string
	StartTime     time.Time
	EndTime       time.Time
	HoldUntil     *time.Time
	IsDiscounted  bool
}
