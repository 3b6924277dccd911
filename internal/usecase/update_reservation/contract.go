package update_reservation

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// LedgerRepository журнал денежных операций
type LedgerRepository interface {
	Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error)
}

// CapacityTracker проверки вместимости и пересечений
type CapacityTracker interface {
	EnsureCapacity(ctx context.Context, spaceType *domain.SpaceType, window domain.TimeWindow, pax int, excludeID *int64) error
	HasOverlap(ctx context.Context, filter domain.OverlapFilter) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	ReservationTransitioned(action string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
