package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	Release(ctx context.Context, id int64) error
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	IncrementAvailable(ctx context.Context, id int64) error
}

// RefundRepository интерфейс репозитория возвратов
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) (*domain.Refund, error)
}

// LedgerRepository журнал денежных операций
type LedgerRepository interface {
	Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error)
}

// RefundPolicy расчет возврата по времени до начала
type RefundPolicy interface {
	Calculate(res *domain.Reservation, now time.Time) domain.RefundQuote
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
	ReservationTransitioned(action string)
	RefundRequested(amount float64)
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
