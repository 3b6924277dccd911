package open_time

import (
	"context"

	openTime "github.com/m04kA/SMC-SpaceBooking/internal/usecase/open_time"
)

type OpenTimeUseCase interface {
	Start(ctx context.Context, req *openTime.StartRequest) (*openTime.StartResponse, error)
	End(ctx context.Context, req *openTime.EndRequest) (*openTime.EndResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
