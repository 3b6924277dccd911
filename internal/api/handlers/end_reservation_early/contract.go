package end_reservation_early

import (
	"context"

	endEarly "github.com/m04kA/SMC-SpaceBooking/internal/usecase/end_reservation_early"
)

type EndReservationEarlyUseCase interface {
	Execute(ctx context.Context, req *endEarly.Request) (*endEarly.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
