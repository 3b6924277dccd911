package spaces

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	Create(ctx context.Context, st *domain.SpaceType) (*domain.SpaceType, error)
	GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
	List(ctx context.Context) ([]*domain.SpaceType, error)
	UpdatePricing(ctx context.Context, st *domain.SpaceType) error
	AdjustSlots(ctx context.Context, id int64, delta int) error
}

// SpaceRepository интерфейс репозитория пространств
type SpaceRepository interface {
	Create(ctx context.Context, s *domain.Space) (*domain.Space, error)
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	List(ctx context.Context, spaceTypeID *int64) ([]*domain.Space, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
