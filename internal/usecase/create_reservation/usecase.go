package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/space"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
)

// Options правила приема бронирований
type Options struct {
	MaxActiveCashBookings        int
	CancellationCheckMinBookings int
	MaxCancellationRatePercent   float64
	HoldDuration                 time.Duration
}

// Repositories хранилища, с которыми работает use case
type Repositories struct {
	Reservations ReservationRepository
	SpaceTypes   SpaceTypeRepository
	Spaces       SpaceRepository
	Customers    CustomerRepository
	Ledger       LedgerRepository
}

// UseCase use case для создания бронирования
type UseCase struct {
	repos        Repositories
	tracker      CapacityTracker
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
	opts         Options
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
	opts Options,
) *UseCase {
	if opts.HoldDuration <= 0 {
		opts.HoldDuration = domain.CashHoldDuration
	}
	return &UseCase{
		repos:        repos,
		tracker:      tracker,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
		opts:         opts,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки вместимости и запись идут в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: space_type=%d, space=%v, method=%s, hours=%.1f, pax=%d, email=%s",
		req.SpaceTypeID, req.SpaceID, req.PaymentMethod, req.Hours, req.Pax, req.Customer.Email)

	// 1. Валидация входных данных
	applyDefaults(req)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		uc.metrics.BookingRejected("validation")
		return nil, err
	}

	// 2. Окно бронирования: прошлое время сдвигается на текущее
	now := uc.timeProvider.Now()
	start := clampStart(req.StartTime, now)
	window := domain.NewWindow(start, hoursDuration(req.Hours))
	method := domain.PaymentMethod(req.PaymentMethod)

	var (
		result    *domain.Reservation
		spaceType *domain.SpaceType
		assigned  *domain.Space
	)

	// 3. Все проверки и записи в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Находим или создаем клиента по email
		customer, err := uc.repos.Customers.Upsert(txCtx, &domain.Customer{
			UserID:      req.Actor.UserID,
			Name:        req.Customer.Name,
			Email:       req.Customer.Email,
			Phone:       req.Customer.Phone,
			CompanyName: req.Customer.CompanyName,
		})
		if err != nil {
			return fmt.Errorf("%w: upsert customer: %w", ErrInternal, err)
		}

		// 3.2. Ограничения на оплату наличными
		if method == domain.PaymentCash {
			stats, err := uc.repos.Reservations.GetCustomerStats(txCtx, customer.ID)
			if err != nil {
				return fmt.Errorf("%w: customer stats: %w", ErrInternal, err)
			}
			if err := uc.validateCashBooking(stats); err != nil {
				return err
			}
		}

		// 3.3. Клиент не может пересекаться сам с собой
		overlap, err := uc.tracker.HasOverlap(txCtx, domain.OverlapFilter{CustomerID: &customer.ID, Window: window})
		if err != nil {
			return fmt.Errorf("%w: customer overlap: %w", ErrInternal, err)
		}
		if overlap {
			return fmt.Errorf("%w: you already have a reservation during this time", domain.ErrConflict)
		}

		// 3.4. Тип пространства (строка блокируется до конца транзакции)
		spaceType, err = uc.repos.SpaceTypes.GetByID(txCtx, req.SpaceTypeID)
		if err != nil {
			return err
		}

		// 3.5. Конкретное пространство или свободное место в пуле
		if req.SpaceID != nil {
			assigned, err = uc.checkDedicatedSpace(txCtx, *req.SpaceID, spaceType, window)
			if err != nil {
				return err
			}
		}

		if err := uc.tracker.EnsureCapacity(txCtx, spaceType, window, req.Pax, nil); err != nil {
			return err
		}

		if assigned == nil {
			assigned, err = uc.repos.Spaces.FindFree(txCtx, spaceType.ID, window)
			if errors.Is(err, space.ErrSpaceNotFound) {
				// В пуле есть вместимость, но все физические места заняты: бронь без места
				assigned, err = nil, nil
			}
			if err != nil {
				return fmt.Errorf("%w: find free space: %w", ErrInternal, err)
			}
		}

		// 3.6. Бронирование со снимком цены
		res := &domain.Reservation{
			CustomerID:       customer.ID,
			UserID:           req.Actor.UserID,
			SpaceTypeID:      &spaceType.ID,
			PaymentMethod:    method,
			Hours:            req.Hours,
			Pax:              req.Pax,
			StartTime:        window.Start,
			EndTime:          window.End,
			CustomHourlyRate: req.CustomHourlyRate,
			Notes:            req.Notes,
		}
		if assigned != nil {
			res.SpaceID = &assigned.ID
		}
		res.SnapshotPricing(assigned, spaceType)
		cost := res.Price(req.Hours, assigned, spaceType)
		res.Cost = &cost

		// 3.7. Начальный статус по способу оплаты
		switch {
		case method == domain.PaymentCash:
			holdUntil := now.Add(uc.opts.HoldDuration)
			res.Status = domain.StatusOnHold
			res.HoldUntil = &holdUntil
		case method.IsInstant():
			res.Status = domain.StatusPaid
			res.AmountPaid = cost
		default:
			res.Status = domain.StatusPending
		}

		created, err := uc.repos.Reservations.Create(txCtx, res)
		if err != nil {
			return fmt.Errorf("%w: create reservation: %w", ErrInternal, err)
		}

		// 3.8. Онлайн-оплата сразу попадает в журнал
		if method.IsInstant() && cost.IsPositive() {
			_, err = uc.repos.Ledger.Record(txCtx, &domain.TransactionLog{
				Type:            domain.TransactionPayment,
				ReservationID:   created.ID,
				CustomerID:      customer.ID,
				ProcessedBy:     req.Actor.ProcessedBy(),
				Amount:          cost,
				PaymentMethod:   method,
				Status:          domain.TransactionCompleted,
				ReferenceNumber: domain.NewReferenceNumber(domain.RefPrefixPayment),
				Description:     fmt.Sprintf("Online payment for reservation #%d via %s", created.ID, method),
			})
			if err != nil {
				return fmt.Errorf("%w: record payment: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.reject(err)
	}

	uc.logger.Info("CreateReservation: created reservation id=%d, status=%s, cost=%s",
		result.ID, result.Status, domain.MoneyString(*result.Cost))

	uc.metrics.ReservationCreated(string(method))
	uc.publish(ctx, result)

	resp := &Response{
		ReservationID: result.ID,
		Status:        string(result.Status),
		TotalCost:     *result.Cost,
		AmountPaid:    result.AmountPaid,
		SpaceTypeName: spaceType.Name,
		StartTime:     result.StartTime,
		EndTime:       *result.EndTime,
		HoldUntil:     result.HoldUntil,
		IsDiscounted:  result.IsDiscounted,
	}
	if assigned != nil {
		resp.SpaceName = &assigned.Name
	}

	return resp, nil
}

// checkDedicatedSpace проверяет, что пространство принадлежит типу,
// не на обслуживании и свободно в окне
func (uc *UseCase) checkDedicatedSpace(ctx context.Context, spaceID int64, spaceType *domain.SpaceType, window domain.TimeWindow) (*domain.Space, error) {
	sp, err := uc.repos.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if sp.SpaceTypeID != spaceType.ID {
		return nil, domain.NewValidationError("space %d does not belong to space type %d", spaceID, spaceType.ID)
	}
	if sp.Status == domain.SpaceMaintenance {
		return nil, fmt.Errorf("%w: space is under maintenance", domain.ErrConflict)
	}

	overlap, err := uc.tracker.HasOverlap(ctx, domain.OverlapFilter{SpaceID: &sp.ID, Window: window})
	if err != nil {
		return nil, fmt.Errorf("%w: space overlap: %w", ErrInternal, err)
	}
	if overlap {
		return nil, domain.ErrConflict
	}

	return sp, nil
}

// reject логирует отказ и приводит конкурентный откат транзакции к ErrConflict
func (uc *UseCase) reject(err error) error {
	switch {
	case errors.Is(err, txmanager.ErrConcurrentUpdate):
		uc.logger.Warn("CreateReservation: concurrent booking rolled back: %v", err)
		uc.metrics.BookingRejected("conflict")
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case errors.Is(err, domain.ErrCapacityExceeded):
		uc.logger.Warn("CreateReservation: %v", err)
		uc.metrics.BookingRejected("capacity")
	case errors.Is(err, domain.ErrConflict):
		uc.logger.Warn("CreateReservation: %v", err)
		uc.metrics.BookingRejected("conflict")
	case errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CreateReservation: %v", err)
		uc.metrics.BookingRejected("validation")
	case errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("CreateReservation: %v", err)
	default:
		uc.logger.Error("CreateReservation: failed: %v", err)
	}
	return err
}

func (uc *UseCase) publish(ctx context.Context, res *domain.Reservation) {
	err := uc.publisher.Publish(ctx, notifications.Event{
		Type:          notifications.EventReservationCreated,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        string(res.Status),
		Amount:        domain.MoneyString(*res.Cost),
		OccurredAt:    uc.timeProvider.Now(),
	})
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
	}
}
