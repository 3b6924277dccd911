package open_time

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	Occupy(ctx context.Context, id int64, customerID int64, from time.Time) error
	Release(ctx context.Context, id int64) error
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
	DecrementAvailable(ctx context.Context, id int64) error
	IncrementAvailable(ctx context.Context, id int64) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
}

// CapacityTracker проверка пересечений по пространству и вместимости пула
type CapacityTracker interface {
	HasOverlap(ctx context.Context, filter domain.OverlapFilter) (bool, error)
	EnsureCapacity(ctx context.Context, spaceType *domain.SpaceType, window domain.TimeWindow, pax int, excludeID *int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher получатель событий о бронированиях
type EventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	ReservationCreated(paymentMethod string)
	ReservationTransitioned(action string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
