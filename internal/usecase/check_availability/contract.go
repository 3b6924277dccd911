package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// SpaceTypeRepository интерфейс репозитория типов пространств
type SpaceTypeRepository interface {
	List(ctx context.Context) ([]*domain.SpaceType, error)
}

// CapacityTracker расчет свободной вместимости пула
type CapacityTracker interface {
	AvailableCapacity(ctx context.Context, spaceType *domain.SpaceType, window domain.TimeWindow, excludeID *int64) (int, error)
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
