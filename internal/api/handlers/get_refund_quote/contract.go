package get_refund_quote

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/reservations/models"
)

type ReservationService interface {
	RefundQuote(ctx context.Context, actor domain.Actor, id int64) (*models.RefundQuoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
