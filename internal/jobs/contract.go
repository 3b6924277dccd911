package jobs

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/usecase/expire_holds"
	"github.com/m04kA/SMC-SpaceBooking/internal/usecase/reconcile_occupancy"
)

// HoldExpirer отмена просроченных удержаний
type HoldExpirer interface {
	Execute(ctx context.Context) (*expire_holds.Result, error)
}

// OccupancyReconciler сверка кэша занятости со счетчиками
type OccupancyReconciler interface {
	Execute(ctx context.Context) (*reconcile_occupancy.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
