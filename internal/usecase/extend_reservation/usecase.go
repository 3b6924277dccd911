package extend_reservation

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

// UseCase use case продления бронирования
type UseCase struct {
	reservations ReservationRepository
	spaceTypes   SpaceTypeRepository
	spaces       SpaceRepository
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
	tracker CapacityTracker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		spaceTypes:   spaceTypes,
		spaces:       spaces,
		tracker:      tracker,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute продлевает бронирование на req.Hours часов. Окно продления
// проверяется на пересечения и вместимость, стоимость растет на
// hours x эффективная ставка, оплаченная бронь становится partial.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendReservation: reservation=%d, hours=%d", req.ReservationID, req.Hours)

	if err := validate.Struct(req); err != nil {
		uc.logger.Warn("ExtendReservation: validation failed: %v", err)
		return nil, domain.NewValidationError("%v", err)
	}

	var (
		res           *domain.Reservation
		extensionCost decimal.Decimal
		remaining     decimal.Decimal
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 1. Бронирование под блокировкой строки
		res, err = uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}

		// 2. Права и допустимость перехода
		if !req.Actor.CanAccess(res) {
			return domain.ErrForbidden
		}
		if err := res.CheckTransition(domain.ActionExtend); err != nil {
			return err
		}
		if res.IsOpen() {
			return domain.NewValidationError("open time reservations cannot be extended")
		}

		sp, st, err := uc.loadPricing(txCtx, res)
		if err != nil {
			return err
		}

		// 3. Окно продления [end, end+hours) не должно ни с чем пересекаться
		extension := time.Duration(req.Hours) * time.Hour
		window := domain.NewWindow(*res.EndTime, extension)
		if err := uc.checkWindow(txCtx, res, st, window); err != nil {
			return err
		}

		// 4. Пересчет стоимости по ставке бронирования
		rate := res.EffectiveRate(sp, st).Rate
		extensionCost = rate.Mul(decimal.NewFromInt(int64(req.Hours))).Round(2)
		cost := res.TotalCost(sp, st).Add(extensionCost)

		res.Cost = &cost
		res.Hours += float64(req.Hours)
		res.EndTime = window.End
		if res.Status == domain.StatusPaid {
			res.Status = domain.StatusPartial
		}
		remaining = res.AmountRemaining(sp, st)

		if err := uc.reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			uc.logger.Warn("ExtendReservation: concurrent update of reservation id=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("ExtendReservation: reservation id=%d not extended: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionExtend))
	uc.logger.Info("ExtendReservation: reservation id=%d extended by %d hours, extra cost=%s",
		res.ID, req.Hours, domain.MoneyString(extensionCost))

	return &Response{
		ReservationID:   res.ID,
		Status:          string(res.Status),
		Hours:           res.Hours,
		EndTime:         *res.EndTime,
		ExtensionCost:   extensionCost,
		TotalCost:       *res.Cost,
		AmountPaid:      res.AmountPaid,
		AmountRemaining: remaining,
	}, nil
}

// checkWindow конкретное пространство проверяется на пересечение,
// пул типа на вместимость; сама бронь исключается из подсчета
func (uc *UseCase) checkWindow(ctx context.Context, res *domain.Reservation, st *domain.SpaceType, window domain.TimeWindow) error {
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
			return domain.ErrConflict
		}
	}

	if st != nil {
		return uc.tracker.EnsureCapacity(ctx, st, window, res.Pax, &res.ID)
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
