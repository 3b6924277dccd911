package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Tracker считает свободную вместимость пулов и ищет пересечения окон.
// Внутри транзакции чтения идут через FOR UPDATE, поэтому проверка и
// последующая запись видят одно и то же состояние.
type Tracker struct {
	reservations ReservationRepository
}

func NewTracker(reservations ReservationRepository) *Tracker {
	return &Tracker{reservations: reservations}
}

// AvailableCapacity total_slots минус сумма pax активных бронирований типа,
// пересекающихся с окном. excludeID исключает редактируемое бронирование.
func (t *Tracker) AvailableCapacity(ctx context.Context, spaceType *domain.SpaceType, window domain.TimeWindow, excludeID *int64) (int, error) {
	typeID := spaceType.ID
	list, err := t.reservations.ListBlocking(ctx, domain.OverlapFilter{
		SpaceTypeID: &typeID,
		Window:      window,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: AvailableCapacity - list reservations: %w", ErrInternal, err)
	}

	return domain.AvailableCapacity(spaceType.TotalSlots, list, window, excludeID), nil
}

// EnsureCapacity возвращает *domain.CapacityExceededError, если pax не помещается
func (t *Tracker) EnsureCapacity(ctx context.Context, spaceType *domain.SpaceType, window domain.TimeWindow, pax int, excludeID *int64) error {
	available, err := t.AvailableCapacity(ctx, spaceType, window, excludeID)
	if err != nil {
		return err
	}
	if pax > available {
		return &domain.CapacityExceededError{Available: available, Requested: pax}
	}
	return nil
}

// HasOverlap есть ли активное бронирование в области фильтра, блокирующее окно
func (t *Tracker) HasOverlap(ctx context.Context, filter domain.OverlapFilter) (bool, error) {
	if filter.SpaceID == nil && filter.SpaceTypeID == nil && filter.CustomerID == nil {
		return false, ErrInvalidScope
	}

	list, err := t.reservations.ListBlocking(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlap - list reservations: %w", ErrInternal, err)
	}

	return len(domain.Blocking(list, filter.Window, filter.ExcludeID)) > 0, nil
}
