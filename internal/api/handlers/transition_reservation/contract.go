package transition_reservation

import (
	"context"

	transition "github.com/m04kA/SMC-SpaceBooking/internal/usecase/transition_reservation"
)

type TransitionUseCase interface {
	Execute(ctx context.Context, req *transition.Request) (*transition.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
