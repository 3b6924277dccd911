package end_reservation_early

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на досрочное завершение
type Request struct {
	Actor         domain.Actor
	ReservationID int64
}

// Response итог досрочного завершения
type Response struct {
	ReservationID int64
	Status        string
	BilledHours   float64
	EndTime       time.Time
	TotalCost     decimal.Decimal
	AmountPaid    decimal.Decimal

	// RefundDue разница между прежней и новой стоимостью; записывается
	// только в заметку бронирования, отдельный возврат не создается
	RefundDue decimal.Decimal
}
