package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error)
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	FindFree(ctx context.Context, spaceTypeID int64, window domain.TimeWindow) (*domain.Space, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
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

// EventPublisher получатель событий о бронированиях
type EventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
}

// MetricsRecorder доменные метрики
type MetricsRecorder interface {
	ReservationCreated(paymentMethod string)
	BookingRejected(reason string)
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
