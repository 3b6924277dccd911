package spaces

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/spaces/models"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SpaceBooking/pkg/validate"
)

// Service администрирование пулов пространств. Счетчики total_slots и
// available_slots меняются в той же транзакции, что и сами места.
type Service struct {
	spaceTypes SpaceTypeRepository
	spaces     SpaceRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса пространств
func NewService(
	spaceTypes SpaceTypeRepository,
	spaces SpaceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		spaceTypes: spaceTypes,
		spaces:     spaces,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListSpaceTypes все типы со своими местами
// Публичный метод - доступен всем
func (s *Service) ListSpaceTypes(ctx context.Context) (*models.SpaceTypeListResponse, error) {
	types, err := s.spaceTypes.List(ctx)
	if err != nil {
		s.logger.Error("ListSpaceTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSpaceTypes - list types: %v", ErrInternal, err)
	}

	spaces, err := s.spaces.List(ctx, nil)
	if err != nil {
		s.logger.Error("ListSpaceTypes: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSpaceTypes - list spaces: %v", ErrInternal, err)
	}

	byType := make(map[int64][]*domain.Space, len(types))
	for _, sp := range spaces {
		byType[sp.SpaceTypeID] = append(byType[sp.SpaceTypeID], sp)
	}

	resp := &models.SpaceTypeListResponse{SpaceTypes: make([]*models.SpaceTypeResponse, 0, len(types))}
	for _, st := range types {
		resp.SpaceTypes = append(resp.SpaceTypes, models.FromDomainSpaceType(st, byType[st.ID]))
	}

	s.logger.Info("ListSpaceTypes: fetched %d space types", len(types))
	return resp, nil
}

// CreateSpaceType создает тип с пустым пулом
// Доступно только администраторам
func (s *Service) CreateSpaceType(ctx context.Context, actor domain.Actor, req *models.CreateSpaceTypeRequest) (*models.SpaceTypeResponse, error) {
	s.logger.Info("CreateSpaceType: name=%s", req.Name)

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		s.logger.Warn("CreateSpaceType: validation failed: %v", err)
		return nil, domain.NewValidationError("%v", err)
	}
	if err := validatePricing(&req.DefaultPrice, req.HourlyRate, req.DefaultDiscountPercentage); err != nil {
		return nil, err
	}

	created, err := s.spaceTypes.Create(ctx, req.ToDomainSpaceType())
	if err != nil {
		s.logger.Error("CreateSpaceType: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSpaceType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSpaceType: created space type id=%d", created.ID)
	return models.FromDomainSpaceType(created, nil), nil
}

// UpdatePricing меняет цены типа. Если передана только default_price,
// она же становится hourly_rate. Действующие бронирования не меняются,
// у них снимок цены.
func (s *Service) UpdatePricing(ctx context.Context, actor domain.Actor, spaceTypeID int64, req *models.UpdatePricingRequest) (*models.SpaceTypeResponse, error) {
	s.logger.Info("UpdatePricing: space type id=%d", spaceTypeID)

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		s.logger.Warn("UpdatePricing: validation failed: %v", err)
		return nil, domain.NewValidationError("%v", err)
	}
	if err := validatePricing(req.DefaultPrice, req.HourlyRate, req.DefaultDiscountPercentage); err != nil {
		return nil, err
	}

	var updated *domain.SpaceType
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		st, err := s.spaceTypes.GetByID(txCtx, spaceTypeID)
		if err != nil {
			return err
		}

		if req.DefaultPrice != nil {
			st.DefaultPrice = *req.DefaultPrice
			if req.HourlyRate == nil {
				rate := *req.DefaultPrice
				st.HourlyRate = &rate
			}
		}
		if req.HourlyRate != nil {
			st.HourlyRate = req.HourlyRate
		}
		if req.PricingType != nil {
			st.PricingType = domain.PricingType(*req.PricingType)
		}
		if req.DefaultDiscountHours != nil {
			st.DefaultDiscountHours = req.DefaultDiscountHours
		}
		if req.DefaultDiscountPercentage != nil {
			st.DefaultDiscountPercentage = req.DefaultDiscountPercentage
		}

		if err := s.spaceTypes.UpdatePricing(txCtx, st); err != nil {
			return fmt.Errorf("%w: UpdatePricing - repository error: %v", ErrInternal, err)
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, s.fail("UpdatePricing", err)
	}

	s.logger.Info("UpdatePricing: space type id=%d rate=%s", updated.ID, domain.MoneyString(updated.Rate()))
	return models.FromDomainSpaceType(updated, nil), nil
}

// AddSpace добавляет место в пул: total_slots и available_slots +1
func (s *Service) AddSpace(ctx context.Context, actor domain.Actor, spaceTypeID int64, req *models.AddSpaceRequest) (*models.SpaceResponse, error) {
	s.logger.Info("AddSpace: space type id=%d, name=%s", spaceTypeID, req.Name)

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		s.logger.Warn("AddSpace: validation failed: %v", err)
		return nil, domain.NewValidationError("%v", err)
	}
	if err := validatePricing(nil, req.HourlyRate, req.DiscountPercentage); err != nil {
		return nil, err
	}

	var created *domain.Space
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.spaceTypes.GetByID(txCtx, spaceTypeID); err != nil {
			return err
		}

		sp, err := s.spaces.Create(txCtx, &domain.Space{
			SpaceTypeID:        spaceTypeID,
			Name:               req.Name,
			Status:             domain.SpaceAvailable,
			HourlyRate:         req.HourlyRate,
			DiscountHours:      req.DiscountHours,
			DiscountPercentage: req.DiscountPercentage,
		})
		if err != nil {
			return fmt.Errorf("%w: AddSpace - create space: %v", ErrInternal, err)
		}

		if err := s.spaceTypes.AdjustSlots(txCtx, spaceTypeID, 1); err != nil {
			return fmt.Errorf("%w: AddSpace - adjust slots: %v", ErrInternal, err)
		}
		created = sp
		return nil
	})
	if err != nil {
		return nil, s.fail("AddSpace", err)
	}

	s.logger.Info("AddSpace: created space id=%d in type id=%d", created.ID, spaceTypeID)
	return models.FromDomainSpace(created), nil
}

// RemoveSpace удаляет свободное место из пула: оба счетчика -1.
// Занятое или на обслуживании место удалить нельзя.
func (s *Service) RemoveSpace(ctx context.Context, actor domain.Actor, spaceID int64) error {
	s.logger.Info("RemoveSpace: space id=%d", spaceID)

	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		sp, err := s.spaces.GetByID(txCtx, spaceID)
		if err != nil {
			return err
		}
		if !sp.IsAvailable() {
			return fmt.Errorf("%w: space %d is %s", domain.ErrConflict, sp.ID, sp.Status)
		}

		if err := s.spaces.Delete(txCtx, sp.ID); err != nil {
			return err
		}
		return s.spaceTypes.AdjustSlots(txCtx, sp.SpaceTypeID, -1)
	})
	if err != nil {
		return s.fail("RemoveSpace", err)
	}

	s.logger.Info("RemoveSpace: space id=%d removed", spaceID)
	return nil
}

func (s *Service) fail(op string, err error) error {
	switch {
	case errors.Is(err, txmanager.ErrConcurrentUpdate):
		s.logger.Warn("%s: concurrent update: %v", op, err)
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: %v", op, err)
		return err
	}
	s.logger.Error("%s: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

func validatePricing(defaultPrice, hourlyRate, discountPct *decimal.Decimal) error {
	if defaultPrice != nil && defaultPrice.IsNegative() {
		return domain.NewValidationError("default price must not be negative")
	}
	if hourlyRate != nil && hourlyRate.IsNegative() {
		return domain.NewValidationError("hourly rate must not be negative")
	}
	if discountPct != nil && (discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100))) {
		return domain.NewValidationError("discount percentage must be between 0 and 100")
	}
	return nil
}
