package expire_holds

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
	ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Reservation, error)
}

// LedgerRepository журнал денежных операций
type LedgerRepository interface {
	Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error)
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
	HoldExpired()
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
