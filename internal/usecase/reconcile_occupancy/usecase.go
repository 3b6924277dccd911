package reconcile_occupancy

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Result число исправленных строк
type Result struct {
	SpacesCorrected int
	TypesCorrected  int
}

// UseCase приводит кэш статусов пространств и счетчики свободных мест
// к проекции из бронирований open time
type UseCase struct {
	reservations ReservationRepository
	spaces       SpaceRepository
	spaceTypes   SpaceTypeRepository
	txManager    TransactionManager
	metrics      MetricsRecorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	spaces SpaceRepository,
	spaceTypes SpaceTypeRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		spaces:       spaces,
		spaceTypes:   spaceTypes,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute один проход сверки
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	result := &Result{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		*result = Result{}

		// 1. Проекция: кто реально сидит в каком пространстве
		running, err := uc.reservations.ListRunningOpenTime(txCtx)
		if err != nil {
			return fmt.Errorf("%w: list running open time: %v", ErrInternal, err)
		}
		bySpace := make(map[int64]domain.Occupancy, len(running))
		for _, o := range running {
			bySpace[o.SpaceID] = o
		}

		// 2. Статусы пространств
		spaces, err := uc.spaces.List(txCtx, nil)
		if err != nil {
			return fmt.Errorf("%w: list spaces: %v", ErrInternal, err)
		}

		occupiedByType := make(map[int64]int)
		for _, sp := range spaces {
			if sp.Status == domain.SpaceMaintenance {
				continue
			}

			o, busy := bySpace[sp.ID]
			if busy {
				occupiedByType[sp.SpaceTypeID]++
			}
			if inSync(sp, o, busy) {
				continue
			}

			if busy {
				uc.logger.Warn("ReconcileOccupancy: space id=%d should be occupied by customer=%d (reservation=%d)",
					sp.ID, o.CustomerID, o.ReservationID)
				customerID, since := o.CustomerID, o.Since
				err = uc.spaces.SetOccupancy(txCtx, sp.ID, &customerID, &since)
			} else {
				uc.logger.Warn("ReconcileOccupancy: space id=%d marked %s without running open time", sp.ID, sp.Status)
				err = uc.spaces.SetOccupancy(txCtx, sp.ID, nil, nil)
			}
			if err != nil {
				return fmt.Errorf("%w: set occupancy for space %d: %v", ErrInternal, sp.ID, err)
			}
			result.SpacesCorrected++
		}

		// 3. Счетчики свободных мест
		types, err := uc.spaceTypes.List(txCtx)
		if err != nil {
			return fmt.Errorf("%w: list space types: %v", ErrInternal, err)
		}

		for _, st := range types {
			expected := st.TotalSlots - occupiedByType[st.ID]
			if expected < 0 {
				expected = 0
			}
			if st.AvailableSlots == expected {
				continue
			}

			uc.logger.Warn("ReconcileOccupancy: space type id=%d available_slots %d -> %d", st.ID, st.AvailableSlots, expected)
			if err := uc.spaceTypes.SetAvailable(txCtx, st.ID, expected); err != nil {
				return fmt.Errorf("%w: set available for space type %d: %v", ErrInternal, st.ID, err)
			}
			result.TypesCorrected++
		}

		return nil
	})

	if err != nil {
		uc.logger.Error("ReconcileOccupancy: failed: %v", err)
		return nil, err
	}

	for i := 0; i < result.SpacesCorrected+result.TypesCorrected; i++ {
		uc.metrics.OccupancyCorrected()
	}
	if result.SpacesCorrected+result.TypesCorrected > 0 {
		uc.logger.Info("ReconcileOccupancy: corrected %d spaces, %d space types", result.SpacesCorrected, result.TypesCorrected)
	}

	return result, nil
}

func inSync(sp *domain.Space, o domain.Occupancy, busy bool) bool {
	if !busy {
		return sp.Status == domain.SpaceAvailable
	}
	return sp.Status == domain.SpaceOccupied &&
		sp.CurrentCustomerID != nil &&
		*sp.CurrentCustomerID == o.CustomerID
}
