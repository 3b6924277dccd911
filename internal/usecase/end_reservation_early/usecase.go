package end_reservation_early

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
)

// UseCase use case досрочного завершения активного бронирования
type UseCase struct {
	reservations ReservationRepository
	spaceTypes   SpaceTypeRepository
	spaces       SpaceRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	spaceTypes SpaceTypeRepository,
	spaces SpaceRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		spaceTypes:   spaceTypes,
		spaces:       spaces,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute завершает бронирование сейчас. Фактическое время округляется
// вверх до целых часов (минимум 1), стоимость пересчитывается, переплата
// срезается до новой стоимости.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EndReservationEarly: reservation=%d", req.ReservationID)

	now := uc.timeProvider.Now()

	var (
		res       *domain.Reservation
		refundDue decimal.Decimal
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Бронирование под блокировкой строки
		res, err = uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}

		// 2. Только владелец и только из active
		if !req.Actor.CanAccess(res) {
			return domain.ErrForbidden
		}
		if err := res.CheckTransition(domain.ActionEndEarly); err != nil {
			return err
		}
		if res.IsOpen() {
			return domain.NewValidationError("open time reservations are ended through the open time flow")
		}
		if !now.Before(*res.EndTime) {
			return domain.NewValidationError("reservation has already ended")
		}

		sp, st, err := uc.loadPricing(txCtx, res)
		if err != nil {
			return err
		}

		// 3. Стоимость фактически использованных часов
		billed := billedHours(now.Sub(res.StartTime).Minutes())
		rate := res.EffectiveRate(sp, st).Rate
		cost := rate.Mul(decimal.NewFromFloat(billed)).Round(2)

		refundDue = res.TotalCost(sp, st).Sub(cost)
		if refundDue.IsNegative() {
			refundDue = decimal.Zero
		}

		// 4. Завершаем
		res.EndTime = &now
		res.Hours = billed
		res.Cost = &cost
		res.Status = domain.StatusCompleted
		res.AppendNote(fmt.Sprintf("Ended early. Refund: %s", domain.MoneyString(refundDue)))
		if res.AmountPaid.GreaterThan(cost) {
			res.AmountPaid = cost
		}

		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			uc.logger.Warn("EndReservationEarly: concurrent update of reservation id=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("EndReservationEarly: reservation id=%d not ended: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionEndEarly))
	uc.logger.Info("EndReservationEarly: reservation id=%d completed, billed=%.0fh, cost=%s, refund due=%s",
		res.ID, res.Hours, domain.MoneyString(*res.Cost), domain.MoneyString(refundDue))

	if err := uc.publisher.Publish(ctx, notifications.Event{
		Type:          notifications.EventReservationCompleted,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        string(res.Status),
		Amount:        domain.MoneyString(*res.Cost),
		OccurredAt:    now,
	}); err != nil {
		uc.logger.Warn("EndReservationEarly: failed to publish event for reservation id=%d: %v", res.ID, err)
	}

	return &Response{
		ReservationID: res.ID,
		Status:        string(res.Status),
		BilledHours:   res.Hours,
		EndTime:       *res.EndTime,
		TotalCost:     *res.Cost,
		AmountPaid:    res.AmountPaid,
		RefundDue:     refundDue,
	}, nil
}

// billedHours минуты округляются вверх до часа, не меньше одного часа
func billedHours(minutes float64) float64 {
	hours := math.Ceil(minutes / 60)
	if hours < 1 {
		return 1
	}
	return hours
}

func (uc *UseCase) loadPricing(ctx context.Context, res *domain.Reservation) (*domain.Space, *domain.SpaceType, error) {
	var (
		sp  *domain.Space
		st  *domain.SpaceType
		err error
	)

	if res.SpaceID != nil {
		if sp, err = uc.spaces.GetByID(ctx, *res.SpaceID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space: %v", ErrInternal, err)
		}
	}
	if res.SpaceTypeID != nil {
		if st, err = uc.spaceTypes.GetByID(ctx, *res.SpaceTypeID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space type: %v", ErrInternal, err)
		}
	}

	return sp, st, nil
}
