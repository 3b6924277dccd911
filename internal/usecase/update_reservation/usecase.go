package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SpaceBooking/pkg/validate"
)

// UseCase use case изменения бронирования администратором
type UseCase struct {
	reservations ReservationRepository
	spaceTypes   SpaceTypeRepository
	spaces       SpaceRepository
	ledger       LedgerRepository
	tracker      CapacityTracker
	txManager    TransactionManager
	metrics      MetricsRecorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	spaceTypes SpaceTypeRepository,
	spaces SpaceRepository,
	ledger LedgerRepository,
	tracker CapacityTracker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		spaceTypes:   spaceTypes,
		spaces:       spaces,
		ledger:       ledger,
		tracker:      tracker,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute применяет изменения. Окно проверяется заново, только если
// сдвинулись время, пространство или число гостей. Изменение amount_paid
// пишет в журнал платеж или возврат на разницу.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation=%d", req.ReservationID)

	// 1. Валидация
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}
	if !req.Actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var (
		res       *domain.Reservation
		remaining decimal.Decimal
		rechecked bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 2. Бронирование под блокировкой строки
		res, err = uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}
		if err := res.CheckTransition(domain.ActionUpdate); err != nil {
			return err
		}
		if req.Hours != nil && res.IsOpenTime {
			return domain.NewValidationError("open time reservations are billed on close, hours cannot be set")
		}

		sp, st, err := uc.loadPricing(txCtx, res)
		if err != nil {
			return err
		}

		// 3. Новое окно, пространство и число гостей
		before := *res
		if req.SpaceID != nil && (res.SpaceID == nil || *res.SpaceID != *req.SpaceID) {
			sp, err = uc.moveToSpace(txCtx, res, *req.SpaceID)
			if err != nil {
				return err
			}
		}
		if req.StartTime != nil {
			res.StartTime = *req.StartTime
		}
		if req.Hours != nil {
			res.Hours = *req.Hours
		}
		if req.Pax != nil {
			res.Pax = *req.Pax
		}
		// end_time досрочно завершенной или закрытой брони хранит фактический конец
		if (req.StartTime != nil || req.Hours != nil) && !res.IsOpen() {
			end := res.StartTime.Add(hoursDuration(res.Hours))
			res.EndTime = &end
		}

		// 4. Статус до проверки: возвращенная в работу бронь снова занимает вместимость
		if req.Status != nil {
			res.Status = domain.ReservationStatus(*req.Status)
			if res.Status != domain.StatusOnHold {
				res.HoldUntil = nil
			}
		}
		reactivated := !before.IsActive() && res.IsActive()

		// 5. Повторная проверка пересечений и вместимости без учета самой брони
		if (windowChanged(&before, res) || reactivated) && res.IsActive() {
			if err := uc.checkWindow(txCtx, res, st); err != nil {
				return err
			}
			rechecked = true
		}

		// 6. Цена: своя ставка, снятие скидки, новая длительность
		repriced := req.Hours != nil
		if req.CustomHourlyRate != nil {
			res.CustomHourlyRate = req.CustomHourlyRate
			repriced = true
		}
		if req.RemoveDiscount && res.IsDiscounted {
			// нулевой процент в снимке перекрывает скидки пространства и типа
			noDiscount := decimal.Zero
			res.AppliedDiscountPercentage = &noDiscount
			res.AppliedDiscountHours = nil
			res.IsDiscounted = false
			repriced = true
		}
		if repriced && !res.IsOpen() {
			cost := res.Price(res.Hours, sp, st)
			res.Cost = &cost
		}

		// 7. Оплата: разница уходит в журнал
		if req.PaymentMethod != nil {
			res.PaymentMethod = domain.PaymentMethod(*req.PaymentMethod)
		}
		if req.AmountPaid != nil {
			delta := req.AmountPaid.Sub(res.AmountPaid)
			res.AmountPaid = *req.AmountPaid
			if err := uc.recordPaymentDelta(txCtx, req.Actor, res, delta); err != nil {
				return err
			}
		}

		// 8. Заметки
		if req.Notes != nil {
			res.Notes = req.Notes
		}

		remaining = res.AmountRemaining(sp, st)

		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			uc.logger.Warn("UpdateReservation: concurrent update of reservation id=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("UpdateReservation: reservation id=%d not updated: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionUpdate))
	uc.logger.Info("UpdateReservation: reservation id=%d updated, status=%s", res.ID, res.Status)

	resp := &Response{
		ReservationID:   res.ID,
		Status:          string(res.Status),
		SpaceID:         res.SpaceID,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		Hours:           res.Hours,
		Pax:             res.Pax,
		AmountPaid:      res.AmountPaid,
		AmountRemaining: remaining,
		IsDiscounted:    res.IsDiscounted,
		Rechecked:       rechecked,
	}
	if res.Cost != nil {
		resp.TotalCost = *res.Cost
	}
	return resp, nil
}

func validateRequest(req *Request) error {
	if err := validate.Struct(req); err != nil {
		return domain.NewValidationError("%v", err)
	}
	if req.AmountPaid != nil && req.AmountPaid.IsNegative() {
		return domain.NewValidationError("amount_paid must not be negative")
	}
	if req.CustomHourlyRate != nil && req.CustomHourlyRate.IsNegative() {
		return domain.NewValidationError("custom_hourly_rate must not be negative")
	}
	return nil
}

// moveToSpace переносит бронь в другое пространство того же типа
func (uc *UseCase) moveToSpace(ctx context.Context, res *domain.Reservation, spaceID int64) (*domain.Space, error) {
	sp, err := uc.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if res.SpaceTypeID != nil && sp.SpaceTypeID != *res.SpaceTypeID {
		return nil, domain.NewValidationError("space %d does not belong to space type %d", spaceID, *res.SpaceTypeID)
	}
	if sp.Status == domain.SpaceMaintenance {
		return nil, fmt.Errorf("%w: space is under maintenance", domain.ErrConflict)
	}
	if res.IsOpenTime && res.IsOpen() {
		return nil, domain.NewValidationError("running open time cannot move to another space")
	}

	res.SpaceID = &sp.ID
	if res.SpaceTypeID == nil {
		res.SpaceTypeID = &sp.SpaceTypeID
	}
	return sp, nil
}

func (uc *UseCase) checkWindow(ctx context.Context, res *domain.Reservation, st *domain.SpaceType) error {
	window := res.Window()

	if res.SpaceID != nil {
		overlap, err := uc.tracker.HasOverlap(ctx, domain.OverlapFilter{
			SpaceID:   res.SpaceID,
			Window:    window,
			ExcludeID: &res.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: space overlap: %v", ErrInternal, err)
		}
		if overlap {
			return fmt.Errorf("%w: another reservation already occupies this space during the selected time window", domain.ErrConflict)
		}
	}

	if st != nil {
		return uc.tracker.EnsureCapacity(ctx, st, window, res.Pax, &res.ID)
	}
	return nil
}

// recordPaymentDelta плюс пишется как платеж, минус как возврат
func (uc *UseCase) recordPaymentDelta(ctx context.Context, actor domain.Actor, res *domain.Reservation, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	entry := &domain.TransactionLog{
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		ProcessedBy:   actor.ProcessedBy(),
		Amount:        delta,
		PaymentMethod: res.PaymentMethod,
	}
	if delta.IsPositive() {
		entry.Type = domain.TransactionPayment
		entry.Status = domain.TransactionCompleted
		entry.ReferenceNumber = domain.NewReferenceNumber(domain.RefPrefixPayment)
		entry.Description = fmt.Sprintf("Payment adjustment: %s added for reservation #%d", domain.MoneyString(delta), res.ID)
	} else {
		entry.Type = domain.TransactionRefund
		entry.Status = domain.TransactionApproved
		entry.ReferenceNumber = domain.NewReferenceNumber(domain.RefPrefixRefund)
		entry.Description = fmt.Sprintf("Payment adjustment: %s deducted for reservation #%d", domain.MoneyString(delta.Abs()), res.ID)
	}

	if _, err := uc.ledger.Record(ctx, entry); err != nil {
		return fmt.Errorf("%w: record payment adjustment: %v", ErrInternal, err)
	}
	return nil
}

// loadPricing пространство и тип для цепочки ставок; любой из них может отсутствовать
func (uc *UseCase) loadPricing(ctx context.Context, res *domain.Reservation) (*domain.Space, *domain.SpaceType, error) {
	var (
		sp  *domain.Space
		st  *domain.SpaceType
		err error
	)

	if res.SpaceID != nil {
		sp, err = uc.spaces.GetByID(ctx, *res.SpaceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space: %v", ErrInternal, err)
		}
	}
	if res.SpaceTypeID != nil {
		st, err = uc.spaceTypes.GetByID(ctx, *res.SpaceTypeID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space type: %v", ErrInternal, err)
		}
	}

	return sp, st, nil
}

func windowChanged(before, after *domain.Reservation) bool {
	return !before.StartTime.Equal(after.StartTime) ||
		!sameTime(before.EndTime, after.EndTime) ||
		!sameID(before.SpaceID, after.SpaceID) ||
		before.Pax != after.Pax
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func hoursDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
