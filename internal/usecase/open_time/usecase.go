package open_time

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	Customers    CustomerRepository
}

// UseCase занятие пространства посетителем без заранее известного конца
// и почасовой расчет при освобождении
type UseCase struct {
	repos        Repositories
	tracker      CapacityTracker
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repos Repositories,
	tracker CapacityTracker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		repos:        repos,
		tracker:      tracker,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Start занимает пространство и создает активную бронь без end_time
func (uc *UseCase) Start(ctx context.Context, req *StartRequest) (*StartResponse, error) {
	uc.logger.Info("StartOpenTime: space=%d, customer=%v", req.SpaceID, req.CustomerID)

	// 1. Валидация входных данных
	if !req.Actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		uc.logger.Warn("StartOpenTime: validation failed: %v", err)
		return nil, domain.NewValidationError("%v", err)
	}
	if req.CustomHourlyRate != nil && req.CustomHourlyRate.IsNegative() {
		return nil, domain.NewValidationError("custom hourly rate must not be negative")
	}
	if req.Pax == 0 {
		req.Pax = domain.MinPax
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PaymentCash
	}

	now := uc.timeProvider.Now()

	var (
		res *domain.Reservation
		sp  *domain.Space
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		// 2. Пространство под блокировкой
		sp, err = uc.repos.Spaces.GetByID(txCtx, req.SpaceID)
		if err != nil {
			return err
		}
		if sp.Status == domain.SpaceMaintenance {
			return fmt.Errorf("%w: space is under maintenance", domain.ErrConflict)
		}

		// 3. Решение принимается по бронированиям, а не по кэшу статуса
		busy, err := uc.tracker.HasOverlap(txCtx, domain.OverlapFilter{
			SpaceID: &sp.ID,
			Window:  domain.TimeWindow{Start: now},
		})
		if err != nil {
			return fmt.Errorf("%w: space overlap: %v", ErrInternal, err)
		}
		if busy {
			return fmt.Errorf("%w: space is reserved right now", domain.ErrConflict)
		}

		// 4. Вместимость пула типа с учетом уже принятых бронирований
		st, err := uc.repos.SpaceTypes.GetByID(txCtx, sp.SpaceTypeID)
		if err != nil {
			return err
		}
		if err := uc.tracker.EnsureCapacity(txCtx, st, domain.TimeWindow{Start: now}, req.Pax, nil); err != nil {
			return err
		}

		customerID, err := uc.resolveCustomer(txCtx, req)
		if err != nil {
			return err
		}

		// 5. Условные UPDATE: пространство и счетчик типа
		if err := uc.repos.Spaces.Occupy(txCtx, sp.ID, customerID, now); err != nil {
			return err
		}
		if err := uc.repos.SpaceTypes.DecrementAvailable(txCtx, sp.SpaceTypeID); err != nil {
			return err
		}

		// 6. Бронь open time: часы и стоимость известны только в конце
		zero := decimal.Zero
		res = &domain.Reservation{
			CustomerID:       customerID,
			SpaceID:          &sp.ID,
			SpaceTypeID:      &st.ID,
			PaymentMethod:    method,
			Hours:            0,
			Pax:              req.Pax,
			Status:           domain.StatusActive,
			StartTime:        now,
			Cost:             &zero,
			AmountPaid:       decimal.Zero,
			CustomHourlyRate: req.CustomHourlyRate,
			IsOpenTime:       true,
			Notes:            req.Notes,
		}
		res.SnapshotPricing(sp, st)

		res, err = uc.repos.Reservations.Create(txCtx, res)
		if err != nil {
			return fmt.Errorf("%w: create reservation: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("StartOpenTime: space id=%d not occupied: %v", req.SpaceID, err)
		return nil, err
	}

	uc.metrics.ReservationCreated(string(method))
	uc.logger.Info("StartOpenTime: reservation id=%d started on space id=%d", res.ID, sp.ID)

	return &StartResponse{
		ReservationID: res.ID,
		SpaceID:       sp.ID,
		SpaceName:     sp.Name,
		CustomerID:    res.CustomerID,
		StartTime:     res.StartTime,
		HourlyRate:    res.EffectiveRate(sp, nil).Rate,
	}, nil
}

// End считает фактическое время (минуты вверх до часа, минимум 1 час),
// завершает бронь и освобождает пространство. amount_paid обнуляется:
// оплата принимается отдельно.
func (uc *UseCase) End(ctx context.Context, req *EndRequest) (*EndResponse, error) {
	uc.logger.Info("EndOpenTime: reservation=%d", req.ReservationID)

	if !req.Actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	now := uc.timeProvider.Now()

	var (
		res     *domain.Reservation
		minutes int
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		res, err = uc.repos.Reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			return err
		}
		if err := res.CheckTransition(domain.ActionEndOpen); err != nil {
			return err
		}
		if !res.IsOpenTime || !res.IsOpen() {
			return domain.NewValidationError("reservation %d is not a running open time", res.ID)
		}

		sp, st, err := uc.loadPricing(txCtx, res)
		if err != nil {
			return err
		}

		// 1. Расчет по фактическому времени
		minutes = int(now.Sub(res.StartTime).Minutes())
		hours := domain.BillableHours(now.Sub(res.StartTime))
		cost := res.Price(hours, sp, st)

		res.Hours = hours
		res.EndTime = &now
		res.Cost = &cost
		res.Status = domain.StatusCompleted
		res.AmountPaid = decimal.Zero

		if err := uc.repos.Reservations.Update(txCtx, res); err != nil {
			return fmt.Errorf("%w: update reservation: %v", ErrInternal, err)
		}

		// 2. Пространство и слот возвращаются в пул
		return uc.release(txCtx, res)
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		uc.logger.Warn("EndOpenTime: reservation id=%d not ended: %v", req.ReservationID, err)
		return nil, err
	}

	uc.metrics.ReservationTransitioned(string(domain.ActionEndOpen))
	uc.logger.Info("EndOpenTime: reservation id=%d ended after %d minutes, billed=%.0fh, cost=%s",
		res.ID, minutes, res.Hours, domain.MoneyString(*res.Cost))

	if err := uc.publisher.Publish(ctx, notifications.Event{
		Type:          notifications.EventReservationCompleted,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        string(res.Status),
		Amount:        domain.MoneyString(*res.Cost),
		OccurredAt:    now,
	}); err != nil {
		uc.logger.Warn("EndOpenTime: failed to publish event for reservation id=%d: %v", res.ID, err)
	}

	return &EndResponse{
		ReservationID:  res.ID,
		Status:         string(res.Status),
		StartTime:      res.StartTime,
		EndTime:        *res.EndTime,
		ElapsedMinutes: minutes,
		BilledHours:    res.Hours,
		TotalCost:      *res.Cost,
		IsDiscounted:   res.IsDiscounted,
	}, nil
}

func (uc *UseCase) resolveCustomer(ctx context.Context, req *StartRequest) (int64, error) {
	if req.CustomerID != nil {
		c, err := uc.repos.Customers.GetByID(ctx, *req.CustomerID)
		if err != nil {
			return 0, err
		}
		return c.ID, nil
	}

	c, err := uc.repos.Customers.Upsert(ctx, &domain.Customer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Customer.Email)),
		Phone: req.Customer.Phone,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: upsert customer: %v", ErrInternal, err)
	}
	return c.ID, nil
}

// release освобождает пространство; если кэш статуса уже разошелся,
// счетчик не трогаем, его поправит сверка
func (uc *UseCase) release(ctx context.Context, res *domain.Reservation) error {
	if res.SpaceID == nil {
		return nil
	}

	err := uc.repos.Spaces.Release(ctx, *res.SpaceID)
	if errors.Is(err, space.ErrSpaceNotOccupied) {
		uc.logger.Warn("EndOpenTime: space id=%d was not occupied", *res.SpaceID)
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

func (uc *UseCase) loadPricing(ctx context.Context, res *domain.Reservation) (*domain.Space, *domain.SpaceType, error) {
	var (
		sp  *domain.Space
		st  *domain.SpaceType
		err error
	)

	if res.SpaceID != nil {
		if sp, err = uc.repos.Spaces.GetByID(ctx, *res.SpaceID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space: %v", ErrInternal, err)
		}
	}
	if res.SpaceTypeID != nil {
		if st, err = uc.repos.SpaceTypes.GetByID(ctx, *res.SpaceTypeID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space type: %v", ErrInternal, err)
		}
	}

	return sp, st, nil
}
