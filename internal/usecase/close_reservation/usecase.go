package close_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/space"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/spacetype"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
)

// UseCase use case закрытия бронирования администратором
type UseCase struct {
	reservations ReservationRepository
	spaces       SpaceRepository
	spaceTypes   SpaceTypeRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	spaces SpaceRepository,
	spaceTypes SpaceTypeRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		spaces:       spaces,
		spaceTypes:   spaceTypes,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute переводит бронирование в completed. Стоимость не пересчитывается,
// end_time ставится на текущее время, только если не был задан.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CloseReservation: reservation=%d", req.ReservationID)

	if !req.Actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	now := uc.timeProvider.Now()

	var (
		res      *domain.Reservation
		released bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		res, err = uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}

		if err := res.CheckTransition(domain.ActionClose); err != nil {
			return err
		}

		// Идущее open time держит пространство, его нужно вернуть в пул
		if res.IsOpenTime && res.IsOpen() && res.SpaceID != nil {
			released, err = uc.releaseSpace(txCtx, res)
			if err != nil {
				return err
			}
		}

		if res.EndTime == nil {
			res.EndTime = &now
		}
		res.Status = domain.StatusCompleted

		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("CloseReservation: reservation id=%d not closed: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionClose))
	uc.logger.Info("CloseReservation: reservation id=%d completed, space released=%t", res.ID, released)

	if err := uc.publisher.Publish(ctx, notifications.Event{
		Type:          notifications.EventReservationCompleted,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        string(res.Status),
		OccurredAt:    now,
	}); err != nil {
		uc.logger.Warn("CloseReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
	}

	return &Response{
		ReservationID: res.ID,
		Status:        string(res.Status),
		EndTime:       *res.EndTime,
		SpaceReleased: released,
	}, nil
}

// releaseSpace освобождает пространство и возвращает слот в счетчик типа.
// Уже освобожденное пространство счетчик не трогает.
func (uc *UseCase) releaseSpace(ctx context.Context, res *domain.Reservation) (bool, error) {
	err := uc.spaces.Release(ctx, *res.SpaceID)
	if errors.Is(err, space.ErrSpaceNotOccupied) {
		uc.logger.Warn("CloseReservation: space id=%d was not occupied", *res.SpaceID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: release space: %v", ErrInternal, err)
	}

	if res.SpaceTypeID != nil {
		err = uc.spaceTypes.IncrementAvailable(ctx, *res.SpaceTypeID)
		if errors.Is(err, spacetype.ErrSlotsAtMaximum) {
			uc.logger.Warn("CloseReservation: space type id=%d counter already at total", *res.SpaceTypeID)
			err = nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: increment available slots: %v", ErrInternal, err)
		}
	}

	return true, nil
}
