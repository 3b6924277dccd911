package expire_holds

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
)

// Result итог одного прохода
type Result struct {
	Expired []int64
	Failed  int
}

// UseCase отменяет неоплаченные брони за наличные с истекшим удержанием
type UseCase struct {
	reservations ReservationRepository
	ledger       LedgerRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	ledger LedgerRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		ledger:       ledger,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute один проход. Каждая бронь отменяется в своей транзакции,
// ошибка по одной брони не останавливает остальные.
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()

	candidates, err := uc.reservations.ListExpiredHolds(ctx, now)
	if err != nil {
		uc.logger.Error("ExpireHolds: failed to list expired holds: %v", err)
		return nil, fmt.Errorf("%w: list expired holds: %v", ErrInternal, err)
	}
	if len(candidates) == 0 {
		return &Result{Expired: []int64{}}, nil
	}

	uc.logger.Info("ExpireHolds: %d holds expired at %s", len(candidates), now.Format(time.RFC3339))

	result := &Result{Expired: make([]int64, 0, len(candidates))}
	for _, c := range candidates {
		expired, err := uc.expire(ctx, c.ID, now)
		if err != nil {
			uc.logger.Error("ExpireHolds: reservation id=%d: %v", c.ID, err)
			result.Failed++
			continue
		}
		if expired == nil {
			continue
		}

		result.Expired = append(result.Expired, expired.ID)
		uc.metrics.HoldExpired()

		if err := uc.publisher.Publish(ctx, notifications.Event{
			Type:          notifications.EventHoldExpired,
			ReservationID: expired.ID,
			CustomerID:    expired.CustomerID,
			Status:        string(expired.Status),
			OccurredAt:    now,
		}); err != nil {
			uc.logger.Warn("ExpireHolds: failed to publish event for reservation id=%d: %v", expired.ID, err)
		}
	}

	uc.logger.Info("ExpireHolds: cancelled %d reservations, %d failed", len(result.Expired), result.Failed)
	return result, nil
}

// expire повторно проверяет бронь под блокировкой: ее могли оплатить
// или подтвердить между выборкой и транзакцией. nil означает пропуск.
func (uc *UseCase) expire(ctx context.Context, id int64, now time.Time) (*domain.Reservation, error) {
	var expired *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.reservations.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !res.HoldExpired(now) || res.CheckTransition(domain.ActionExpire) != nil {
			return nil
		}

		res.Status = domain.StatusCancelled
		res.AppendNote(fmt.Sprintf("Cash hold expired at %s", res.HoldUntil.Format(time.RFC3339)))
		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}

		_, err = uc.ledger.Record(txCtx, &domain.TransactionLog{
			Type:            domain.TransactionCancellation,
			ReservationID:   res.ID,
			CustomerID:      res.CustomerID,
			Amount:          decimal.Zero,
			PaymentMethod:   res.PaymentMethod,
			Status:          domain.TransactionCompleted,
			ReferenceNumber: domain.NewReferenceNumber(domain.RefPrefixCancellation),
			Description:     fmt.Sprintf("Unpaid cash hold for reservation #%d expired", res.ID),
		})
		if err != nil {
			return fmt.Errorf("%w: record cancellation: %v", ErrInternal, err)
		}

		expired = res
		return nil
	})

	return expired, err
}
