package check_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Options рабочие часы, в пределах которых подбираются альтернативы
type Options struct {
	DayStartHour int
	DayEndHour   int
}

// UseCase use case проверки доступности типов пространств
type UseCase struct {
	spaceTypes   SpaceTypeRepository
	tracker      CapacityTracker
	timeProvider TimeProvider
	logger       Logger
	opts         Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	spaceTypes SpaceTypeRepository,
	tracker CapacityTracker,
	timeProvider TimeProvider,
	logger Logger,
	opts Options,
) *UseCase {
	if opts.DayEndHour <= opts.DayStartHour {
		opts.DayStartHour, opts.DayEndHour = 9, 24
	}
	return &UseCase{
		spaceTypes:   spaceTypes,
		tracker:      tracker,
		timeProvider: timeProvider,
		logger:       logger,
		opts:         opts,
	}
}

// Execute выполняет use case проверки доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: start=%v, hours=%d, pax=%d", req.StartTime, req.Hours, req.Pax)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Окно проверки
	now := uc.timeProvider.Now()
	start := now
	if req.StartTime != nil && req.StartTime.After(now) {
		start = *req.StartTime
	}
	duration := time.Duration(req.Hours) * time.Hour
	window := domain.NewWindow(start, duration)

	// 3. Все типы пространств
	types, err := uc.spaceTypes.List(ctx)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list space types: %v", err)
		return nil, fmt.Errorf("%w: list space types: %v", ErrInternal, err)
	}

	// 4. Вместимость каждого типа и альтернативы для тех, что не вмещают
	result := make([]SpaceTypeAvailability, 0, len(types))
	for _, st := range types {
		available, err := uc.tracker.AvailableCapacity(ctx, st, window, nil)
		if err != nil {
			uc.logger.Error("CheckAvailability: capacity of space type id=%d: %v", st.ID, err)
			return nil, fmt.Errorf("%w: capacity: %v", ErrInternal, err)
		}

		item := SpaceTypeAvailability{
			SpaceTypeID:       st.ID,
			Name:              st.Name,
			TotalSlots:        st.TotalSlots,
			AvailableCapacity: available,
			RequestedPax:      req.Pax,
			CanAccommodate:    available >= req.Pax,
			HourlyRate:        st.Rate(),
			Alternatives:      []Alternative{},
		}

		if !item.CanAccommodate {
			item.Alternatives, err = uc.findAlternatives(ctx, st, start, now, duration, req.Pax)
			if err != nil {
				uc.logger.Error("CheckAvailability: alternatives for space type id=%d: %v", st.ID, err)
				return nil, fmt.Errorf("%w: alternatives: %v", ErrInternal, err)
			}
		}

		result = append(result, item)
	}

	uc.logger.Info("CheckAvailability: checked %d space types for %s", len(result), start.Format(time.RFC3339))

	return &Response{
		StartTime:  start,
		EndTime:    *window.End,
		Hours:      req.Hours,
		Pax:        req.Pax,
		SpaceTypes: result,
	}, nil
}
