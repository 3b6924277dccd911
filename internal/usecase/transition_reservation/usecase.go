package transition_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
)

// targets статус, в который переводит каждое действие
var targets = map[domain.Action]domain.ReservationStatus{
	domain.ActionConfirm: domain.StatusConfirmed,
	domain.ActionStart:   domain.StatusActive,
}

// UseCase use case подтверждения и начала бронирования администратором
type UseCase struct {
	reservations ReservationRepository
	txManager    TransactionManager
	metrics      MetricsRecorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет переход confirm или start
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionReservation: reservation=%d, action=%s", req.ReservationID, req.Action)

	target, ok := targets[req.Action]
	if !ok {
		return nil, domain.NewValidationError("unsupported action %q", req.Action)
	}
	if !req.Actor.IsAdmin() {
		uc.logger.Warn("TransitionReservation: non-admin attempted %s on reservation id=%d", req.Action, req.ReservationID)
		return nil, domain.ErrForbidden
	}

	var res *domain.Reservation
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		res, err = uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}

		if err := res.CheckTransition(req.Action); err != nil {
			return err
		}

		res.Status = target
		// подтвержденная бронь больше не удерживается
		if req.Action == domain.ActionConfirm {
			res.HoldUntil = nil
		}

		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("TransitionReservation: %s of reservation id=%d failed: %v", req.Action, req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(req.Action))
	uc.logger.Info("TransitionReservation: reservation id=%d is now %s", res.ID, res.Status)

	return &Response{ReservationID: res.ID, Status: string(res.Status)}, nil
}
