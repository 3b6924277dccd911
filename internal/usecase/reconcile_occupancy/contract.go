package reconcile_occupancy

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// ReservationRepository источник проекции занятости
type ReservationRepository interface {
	ListRunningOpenTime(ctx context.Context) ([]domain.Occupancy, error)
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	List(ctx context.Context, spaceTypeID *int64) ([]*domain.Space, error)
	SetOccupancy(ctx context.Context, id int64, customerID *int64, from *time.Time) error
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	List(ctx context.Context) ([]*domain.SpaceType, error)
	SetAvailable(ctx context.Context, id int64, available int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	OccupancyCorrected()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
