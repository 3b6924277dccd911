package get_customer_reservations

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/reservations/models"
)

type ReservationService interface {
	ListCustomerReservations(ctx context.Context, actor domain.Actor, customerID int64, status *string) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
