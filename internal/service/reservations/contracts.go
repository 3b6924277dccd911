package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
}

// RefundRepository интерфейс репозитория возвратов
type RefundRepository interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Refund, error)
}

// LedgerRepository журнал денежных операций
type LedgerRepository interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]*domain.TransactionLog, error)
}

// RefundPolicy расчет возврата при отмене
type RefundPolicy interface {
	Calculate(res *domain.Reservation, now time.Time) domain.RefundQuote
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
