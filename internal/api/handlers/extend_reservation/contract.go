package extend_reservation

import (
	"context"

	extendReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/extend_reservation"
)

type ExtendReservationUseCase interface {
	Execute(ctx context.Context, req *extendReservation.Request) (*extendReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
