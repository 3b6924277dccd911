package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/space"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/spacetype"
)

// SpaceTypeRepository типы пространств в памяти
type SpaceTypeRepository struct {
	s *Store
}

func (r *SpaceTypeRepository) Create(ctx context.Context, st *domain.SpaceType) (*domain.SpaceType, error) {
	defer r.s.lock(ctx)()

	st.ID = r.s.nextID()
	st.CreatedAt = r.s.clock.Now()
	st.UpdatedAt = st.CreatedAt
	r.s.data.spaceTypes[st.ID] = copyOf(st)

	return st, nil
}

func (r *SpaceTypeRepository) GetByID(ctx context.Context, id int64) (*domain.SpaceType, error) {
	defer r.s.lock(ctx)()

	st, ok := r.s.data.spaceTypes[id]
	if !ok {
		return nil, spacetype.ErrSpaceTypeNotFound
	}
	return copyOf(st), nil
}

func (r *SpaceTypeRepository) List(ctx context.Context) ([]*domain.SpaceType, error) {
	defer r.s.lock(ctx)()

	types := make([]*domain.SpaceType, 0, len(r.s.data.spaceTypes))
	for _, st := range r.s.data.spaceTypes {
		types = append(types, copyOf(st))
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	return types, nil
}

func (r *SpaceTypeRepository) UpdatePricing(ctx context.Context, st *domain.SpaceType) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.spaceTypes[st.ID]
	if !ok {
		return spacetype.ErrSpaceTypeNotFound
	}

	updated := copyOf(stored)
	updated.DefaultPrice = st.DefaultPrice
	updated.HourlyRate = st.HourlyRate
	updated.PricingType = st.PricingType
	updated.DefaultDiscountHours = st.DefaultDiscountHours
	updated.DefaultDiscountPercentage = st.DefaultDiscountPercentage
	updated.UpdatedAt = r.s.clock.Now()
	r.s.data.spaceTypes[st.ID] = updated

	return nil
}

func (r *SpaceTypeRepository) AdjustSlots(ctx context.Context, id int64, delta int) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, spacetype.ErrNoSlotsAvailable, func(st *domain.SpaceType) bool {
		if st.TotalSlots+delta < 0 || st.AvailableSlots+delta < 0 {
			return false
		}
		st.TotalSlots += delta
		st.AvailableSlots += delta
		return true
	})
}

func (r *SpaceTypeRepository) DecrementAvailable(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, spacetype.ErrNoSlotsAvailable, func(st *domain.SpaceType) bool {
		if st.AvailableSlots <= 0 {
			return false
		}
		st.AvailableSlots--
		return true
	})
}

func (r *SpaceTypeRepository) IncrementAvailable(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, spacetype.ErrSlotsAtMaximum, func(st *domain.SpaceType) bool {
		if st.AvailableSlots >= st.TotalSlots {
			return false
		}
		st.AvailableSlots++
		return true
	})
}

func (r *SpaceTypeRepository) SetAvailable(ctx context.Context, id int64, available int) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, spacetype.ErrSpaceTypeNotFound, func(st *domain.SpaceType) bool {
		if available > st.TotalSlots {
			return false
		}
		st.AvailableSlots = available
		return true
	})
}

// mutate применяет fn к копии строки; false из fn означает, что условие
// UPDATE ... WHERE не выполнилось
func (r *SpaceTypeRepository) mutate(id int64, notAffected error, fn func(st *domain.SpaceType) bool) error {
	stored, ok := r.s.data.spaceTypes[id]
	if !ok {
		return notAffected
	}

	updated := copyOf(stored)
	if !fn(updated) {
		return notAffected
	}
	updated.UpdatedAt = r.s.clock.Now()
	r.s.data.spaceTypes[id] = updated

	return nil
}

// SpaceRepository физические пространства в памяти
type SpaceRepository struct {
	s *Store
}

func (r *SpaceRepository) Create(ctx context.Context, sp *domain.Space) (*domain.Space, error) {
	defer r.s.lock(ctx)()

	sp.ID = r.s.nextID()
	sp.CreatedAt = r.s.clock.Now()
	sp.UpdatedAt = sp.CreatedAt
	r.s.data.spaces[sp.ID] = copyOf(sp)

	return sp, nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	defer r.s.lock(ctx)()

	sp, ok := r.s.data.spaces[id]
	if !ok {
		return nil, space.ErrSpaceNotFound
	}
	return copyOf(sp), nil
}

func (r *SpaceRepository) List(ctx context.Context, spaceTypeID *int64) ([]*domain.Space, error) {
	defer r.s.lock(ctx)()

	return r.list(spaceTypeID), nil
}

func (r *SpaceRepository) list(spaceTypeID *int64) []*domain.Space {
	spaces := make([]*domain.Space, 0)
	for _, sp := range r.s.data.spaces {
		if spaceTypeID != nil && sp.SpaceTypeID != *spaceTypeID {
			continue
		}
		spaces = append(spaces, copyOf(sp))
	}
	sort.Slice(spaces, func(i, j int) bool {
		if spaces[i].SpaceTypeID != spaces[j].SpaceTypeID {
			return spaces[i].SpaceTypeID < spaces[j].SpaceTypeID
		}
		return spaces[i].ID < spaces[j].ID
	})
	return spaces
}

func (r *SpaceRepository) FindFree(ctx context.Context, spaceTypeID int64, window domain.TimeWindow) (*domain.Space, error) {
	defer r.s.lock(ctx)()

	for _, sp := range r.list(&spaceTypeID) {
		if sp.Status == domain.SpaceMaintenance {
			continue
		}
		id := sp.ID
		if len(r.s.blocking(domain.OverlapFilter{SpaceID: &id, Window: window})) == 0 {
			return sp, nil
		}
	}

	return nil, space.ErrSpaceNotFound
}

func (r *SpaceRepository) Occupy(ctx context.Context, id int64, customerID int64, from time.Time) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, space.ErrSpaceNotAvailable, func(sp *domain.Space) bool {
		if sp.Status != domain.SpaceAvailable {
			return false
		}
		sp.Occupy(customerID, from, nil)
		return true
	})
}

func (r *SpaceRepository) Release(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, space.ErrSpaceNotOccupied, func(sp *domain.Space) bool {
		if sp.Status != domain.SpaceOccupied {
			return false
		}
		sp.Release()
		return true
	})
}

func (r *SpaceRepository) SetOccupancy(ctx context.Context, id int64, customerID *int64, from *time.Time) error {
	defer r.s.lock(ctx)()

	return r.mutate(id, space.ErrSpaceNotFound, func(sp *domain.Space) bool {
		if sp.Status == domain.SpaceMaintenance {
			return false
		}
		if customerID == nil {
			sp.Release()
			return true
		}
		since := r.s.clock.Now()
		if from != nil {
			since = *from
		}
		sp.Occupy(*customerID, since, nil)
		return true
	})
}

func (r *SpaceRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()

	sp, ok := r.s.data.spaces[id]
	if !ok || sp.Status != domain.SpaceAvailable {
		return space.ErrSpaceNotAvailable
	}
	delete(r.s.data.spaces, id)

	return nil
}

func (r *SpaceRepository) mutate(id int64, notAffected error, fn func(sp *domain.Space) bool) error {
	stored, ok := r.s.data.spaces[id]
	if !ok {
		return notAffected
	}

	updated := copyOf(stored)
	if !fn(updated) {
		return notAffected
	}
	updated.UpdatedAt = r.s.clock.Now()
	r.s.data.spaces[id] = updated

	return nil
}
