package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/reservation"
)

// ReservationRepository бронирования в памяти
type ReservationRepository struct {
	s *Store
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	res.ID = r.s.nextID()
	res.CreatedAt = r.s.clock.Now()
	res.UpdatedAt = res.CreatedAt
	r.s.data.reservations[res.ID] = copyOf(res)

	return res, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	res, ok := r.s.data.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return copyOf(res), nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.reservations[res.ID]
	if !ok {
		return reservation.ErrReservationNotFound
	}

	updated := copyOf(res)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = r.s.clock.Now()
	r.s.data.reservations[res.ID] = updated
	res.UpdatedAt = updated.UpdatedAt

	return nil
}

func (r *ReservationRepository) ListBlocking(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	return r.s.blocking(filter), nil
}

func (r *ReservationRepository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	list := r.s.filter(func(res *domain.Reservation) bool {
		return res.CustomerID == customerID && (status == nil || res.Status == *status)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.After(list[j].StartTime) })

	return list, nil
}

func (r *ReservationRepository) ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	defer r.s.lock(ctx)()

	list := r.s.filter(func(res *domain.Reservation) bool { return res.HoldExpired(now) })
	sort.Slice(list, func(i, j int) bool { return list[i].HoldUntil.Before(*list[j].HoldUntil) })

	return list, nil
}

func (r *ReservationRepository) ListRunningOpenTime(ctx context.Context) ([]domain.Occupancy, error) {
	defer r.s.lock(ctx)()

	list := r.s.filter(func(res *domain.Reservation) bool {
		return res.Status == domain.StatusActive && res.EndTime == nil && res.SpaceID != nil
	})

	occupancy := make([]domain.Occupancy, 0, len(list))
	for _, res := range list {
		o := domain.Occupancy{
			SpaceID:       *res.SpaceID,
			ReservationID: res.ID,
			CustomerID:    res.CustomerID,
			Since:         res.StartTime,
		}
		if res.SpaceTypeID != nil {
			o.SpaceTypeID = *res.SpaceTypeID
		}
		occupancy = append(occupancy, o)
	}
	sort.Slice(occupancy, func(i, j int) bool { return occupancy[i].SpaceID < occupancy[j].SpaceID })

	return occupancy, nil
}

func (r *ReservationRepository) GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error) {
	defer r.s.lock(ctx)()

	var stats domain.CustomerStats
	for _, res := range r.s.data.reservations {
		if res.CustomerID != customerID {
			continue
		}
		stats.TotalBookings++
		switch {
		case res.Status == domain.StatusCancelled:
			stats.CancelledBookings++
		case res.PaymentMethod == domain.PaymentCash && isCashActive(res.Status):
			stats.ActiveCashBookings++
		}
	}

	return stats, nil
}

func isCashActive(s domain.ReservationStatus) bool {
	switch s {
	case domain.StatusPending, domain.StatusOnHold, domain.StatusConfirmed, domain.StatusActive:
		return true
	}
	return false
}

// blocking та же выборка, что и reservation.Repository.ListBlocking
func (s *Store) blocking(f domain.OverlapFilter) []*domain.Reservation {
	list := s.filter(func(res *domain.Reservation) bool {
		if !res.IsActive() {
			return false
		}
		if f.ExcludeID != nil && res.ID == *f.ExcludeID {
			return false
		}
		if f.SpaceID != nil && (res.SpaceID == nil || *res.SpaceID != *f.SpaceID) {
			return false
		}
		if f.SpaceTypeID != nil && (res.SpaceTypeID == nil || *res.SpaceTypeID != *f.SpaceTypeID) {
			return false
		}
		if f.CustomerID != nil && res.CustomerID != *f.CustomerID {
			return false
		}
		return res.Window().Blocks(f.Window)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list
}

func (s *Store) filter(keep func(res *domain.Reservation) bool) []*domain.Reservation {
	list := make([]*domain.Reservation, 0)
	for _, res := range s.data.reservations {
		if keep(res) {
			list = append(list, copyOf(res))
		}
	}
	return list
}

// CustomerRepository клиенты в памяти
type CustomerRepository struct {
	s *Store
}

func (r *CustomerRepository) Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	defer r.s.lock(ctx)()

	now := r.s.clock.Now()
	for id, stored := range r.s.data.customers {
		if !strings.EqualFold(stored.Email, c.Email) {
			continue
		}
		updated := copyOf(stored)
		updated.Name = c.Name
		if updated.UserID == nil {
			updated.UserID = c.UserID
		}
		if c.Phone != nil {
			updated.Phone = c.Phone
		}
		if c.CompanyName != nil {
			updated.CompanyName = c.CompanyName
		}
		updated.UpdatedAt = now
		r.s.data.customers[id] = updated
		return copyOf(updated), nil
	}

	created := copyOf(c)
	created.ID = r.s.nextID()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.s.data.customers[created.ID] = created

	return copyOf(created), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	defer r.s.lock(ctx)()

	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	return copyOf(c), nil
}

// RefundRepository возвраты в памяти
type RefundRepository struct {
	s *Store
}

func (r *RefundRepository) Create(ctx context.Context, rf *domain.Refund) (*domain.Refund, error) {
	defer r.s.lock(ctx)()

	rf.ID = r.s.nextID()
	rf.CreatedAt = r.s.clock.Now()
	r.s.data.refunds = append(r.s.data.refunds, copyOf(rf))

	return rf, nil
}

func (r *RefundRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Refund, error) {
	defer r.s.lock(ctx)()

	refunds := make([]*domain.Refund, 0)
	for _, rf := range r.s.data.refunds {
		if rf.ReservationID == reservationID {
			refunds = append(refunds, copyOf(rf))
		}
	}
	return refunds, nil
}

// LedgerRepository журнал операций в памяти
type LedgerRepository struct {
	s *Store
}

func (r *LedgerRepository) Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error) {
	defer r.s.lock(ctx)()

	entry.ID = r.s.nextID()
	entry.CreatedAt = r.s.clock.Now()
	r.s.data.ledger = append(r.s.data.ledger, copyOf(entry))

	return entry, nil
}

func (r *LedgerRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.TransactionLog, error) {
	defer r.s.lock(ctx)()

	entries := make([]*domain.TransactionLog, 0)
	for _, e := range r.s.data.ledger {
		if e.ReservationID == reservationID {
			entries = append(entries, copyOf(e))
		}
	}
	return entries, nil
}
