package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/reservations/models"
)

// Service чтение бронирований: карточка, история клиента, расчет возврата
type Service struct {
	reservations ReservationRepository
	spaces       SpaceRepository
	spaceTypes   SpaceTypeRepository
	refunds      RefundRepository
	ledger       LedgerRepository
	policy       RefundPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservations ReservationRepository,
	spaces SpaceRepository,
	spaceTypes SpaceTypeRepository,
	refunds RefundRepository,
	ledger LedgerRepository,
	policy RefundPolicy,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservations: reservations,
		spaces:       spaces,
		spaceTypes:   spaceTypes,
		refunds:      refunds,
		ledger:       ledger,
		policy:       policy,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID карточка бронирования с возвратами и журналом операций.
// Клиент видит только свои бронирования, администратор любые.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	res, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	sp, st, err := s.loadPricing(ctx, res)
	if err != nil {
		return nil, err
	}

	refunds, err := s.refunds.ListByReservation(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list refunds for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - list refunds: %v", ErrInternal, err)
	}
	entries, err := s.ledger.ListByReservation(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list transactions for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - list transactions: %v", ErrInternal, err)
	}

	resp := models.FromDomainReservation(res, sp, st)
	resp.Refunds = models.FromDomainRefunds(refunds)
	resp.Transactions = models.FromDomainTransactions(entries)

	return resp, nil
}

// ListCustomerReservations история бронирований клиента, новые сначала
func (s *Service) ListCustomerReservations(ctx context.Context, actor domain.Actor, customerID int64, status *string) (*models.ReservationListResponse, error) {
	s.logger.Info("ListCustomerReservations: customer=%d, status=%v", customerID, status)

	if !actor.CanAccessCustomer(customerID) {
		s.logger.Warn("ListCustomerReservations: access denied to customer=%d", customerID)
		return nil, domain.ErrForbidden
	}

	var filter *domain.ReservationStatus
	if status != nil && *status != "" {
		st, err := models.ToDomainStatus(*status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}

	list, err := s.reservations.ListByCustomer(ctx, customerID, filter)
	if err != nil {
		s.logger.Error("ListCustomerReservations: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListCustomerReservations - repository error: %v", ErrInternal, err)
	}

	resp := &models.ReservationListResponse{
		CustomerID:   customerID,
		Reservations: make([]*models.ReservationResponse, 0, len(list)),
		Total:        len(list),
	}
	for _, res := range list {
		resp.Reservations = append(resp.Reservations, models.FromDomainReservation(res, nil, nil))
	}

	s.logger.Info("ListCustomerReservations: fetched %d reservations for customer=%d", len(list), customerID)
	return resp, nil
}

// RefundQuote сколько вернется при отмене прямо сейчас; ничего не меняет
func (s *Service) RefundQuote(ctx context.Context, actor domain.Actor, id int64) (*models.RefundQuoteResponse, error) {
	s.logger.Info("RefundQuote: reservation id=%d", id)

	res, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := res.CheckTransition(domain.ActionCancel); err != nil {
		return nil, err
	}

	quote := s.policy.Calculate(res, s.timeProvider.Now())
	return models.FromDomainQuote(res, quote), nil
}

func (s *Service) load(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("reservation id=%d not found", id)
			return nil, err
		}
		s.logger.Error("repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get reservation: %v", ErrInternal, err)
	}

	if !actor.CanAccess(res) {
		s.logger.Warn("access denied to reservation id=%d", id)
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (s *Service) loadPricing(ctx context.Context, res *domain.Reservation) (*domain.Space, *domain.SpaceType, error) {
	var (
		sp  *domain.Space
		st  *domain.SpaceType
		err error
	)

	if res.SpaceID != nil {
		sp, err = s.spaces.GetByID(ctx, *res.SpaceID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space: %v", ErrInternal, err)
		}
	}
	if res.SpaceTypeID != nil {
		st, err = s.spaceTypes.GetByID(ctx, *res.SpaceTypeID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: get space type: %v", ErrInternal, err)
		}
	}

	return sp, st, nil
}
