package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/space"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/spacetype"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SpaceBooking/pkg/validate"
)

// Repositories хранилища, с которыми работает use case
type Repositories struct {
	Reservations ReservationRepository
	Spaces       SpaceRepository
	SpaceTypes   SpaceTypeRepository
	Refunds      RefundRepository
	Ledger       LedgerRepository
}

// UseCase use case отмены бронирования
type UseCase struct {
	repos        Repositories
	policy       RefundPolicy
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repos Repositories,
	policy RefundPolicy,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		repos:        repos,
		policy:       policy,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute отменяет бронирование. Отмена, запись в журнал и возврат
// фиксируются одной транзакцией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d", req.ReservationID)

	if err := validate.Struct(req); err != nil {
		return nil, domain.NewValidationError("%v", err)
	}

	now := uc.timeProvider.Now()

	var (
		res    *domain.Reservation
		quote  domain.RefundQuote
		refund *domain.Refund
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Бронирование под блокировкой строки
		res, err = uc.repos.Reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}
		if !req.Actor.CanAccess(res) {
			return domain.ErrForbidden
		}
		if err := res.CheckTransition(domain.ActionCancel); err != nil {
			return err
		}

		// 2. Сумма возврата по политике
		quote = uc.policy.Calculate(res, now)

		// 3. Идущее open time освобождает пространство
		if res.IsOpenTime && res.IsOpen() && res.SpaceID != nil {
			if err := uc.releaseSpace(txCtx, res); err != nil {
				return err
			}
		}

		res.Status = domain.StatusCancelled
		if err := uc.repos.Reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}

		// 4. Запись об отмене в журнал
		if err := uc.record(txCtx, req.Actor, res, domain.TransactionCancellation, domain.TransactionCompleted,
			decimal.Zero, domain.RefPrefixCancellation,
			fmt.Sprintf("Cancelled %.1f hours before start. Policy: %d%% refund. Reason: %s",
				quote.HoursUntilStart, quote.Percentage, reasonOrDefault(req))); err != nil {
			return err
		}

		// 5. Возврат, если было что возвращать
		if !res.AmountPaid.IsPositive() {
			return nil
		}

		refund, err = uc.createRefund(txCtx, req, res, quote, now)
		if err != nil {
			return err
		}

		if quote.RefundAmount.IsPositive() {
			return uc.record(txCtx, req.Actor, res, domain.TransactionRefund, domain.TransactionPending,
				quote.RefundAmount.Neg(), domain.RefPrefixRefund,
				fmt.Sprintf("Refund request pending approval | Refund amount: %s | Cancellation fee: %s",
					domain.MoneyString(quote.RefundAmount), domain.MoneyString(quote.CancellationFee)))
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("CancelReservation: reservation id=%d not cancelled: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionCancel))
	uc.logger.Info("CancelReservation: reservation id=%d cancelled %.1fh before start, refund=%s (%d%%)",
		res.ID, quote.HoursUntilStart, domain.MoneyString(quote.RefundAmount), quote.Percentage)

	resp := &Response{
		ReservationID:   res.ID,
		Status:          string(res.Status),
		HoursUntilStart: quote.HoursUntilStart,
		Percentage:      quote.Percentage,
		RefundAmount:    quote.RefundAmount,
		CancellationFee: quote.CancellationFee,
	}

	uc.publish(ctx, notifications.EventReservationCancelled, res, "", now)
	if refund != nil {
		amount, _ := refund.RefundAmount.Float64()
		uc.metrics.RefundRequested(amount)
		uc.publish(ctx, notifications.EventRefundCreated, res, refund.ReferenceNumber, now)
		resp.Refund = &RefundInfo{
			ID:              refund.ID,
			Status:          string(refund.Status),
			ReferenceNumber: refund.ReferenceNumber,
		}
	}

	return resp, nil
}

// createRefund возврат создается в pending; нулевой возврат сразу completed
func (uc *UseCase) createRefund(ctx context.Context, req *Request, res *domain.Reservation, quote domain.RefundQuote, now time.Time) (*domain.Refund, error) {
	notes := fmt.Sprintf("Cancelled %.1f hours before start time. Refund: %d%%", quote.HoursUntilStart, quote.Percentage)

	refund := &domain.Refund{
		ReservationID:      res.ID,
		CustomerID:         res.CustomerID,
		ProcessedBy:        req.Actor.ProcessedBy(),
		RefundAmount:       quote.RefundAmount,
		OriginalAmountPaid: res.AmountPaid,
		CancellationFee:    quote.CancellationFee,
		RefundMethod:       res.PaymentMethod,
		Status:             domain.RefundPending,
		Reason:             reasonOrDefault(req),
		Notes:              &notes,
		ReferenceNumber:    domain.NewReferenceNumber(domain.RefPrefixRefund),
	}
	if !quote.RefundAmount.IsPositive() {
		refund.Status = domain.RefundCompleted
		refund.ProcessedAt = &now
	}

	created, err := uc.repos.Refunds.Create(ctx, refund)
	if err != nil {
		return nil, fmt.Errorf("%w: create refund: %v", ErrInternal, err)
	}
	return created, nil
}

func (uc *UseCase) releaseSpace(ctx context.Context, res *domain.Reservation) error {
	err := uc.repos.Spaces.Release(ctx, *res.SpaceID)
	if errors.Is(err, space.ErrSpaceNotOccupied) {
		uc.logger.Warn("CancelReservation: space id=%d was not occupied", *res.SpaceID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: release space: %v", ErrInternal, err)
	}

	if res.SpaceTypeID == nil {
		return nil
	}
	err = uc.repos.SpaceTypes.IncrementAvailable(ctx, *res.SpaceTypeID)
	if err != nil && !errors.Is(err, spacetype.ErrSlotsAtMaximum) {
		return fmt.Errorf("%w: increment available slots: %v", ErrInternal, err)
	}
	return nil
}
