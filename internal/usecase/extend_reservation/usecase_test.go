package extend_reservation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var start = time.Date(2026, 5, 11, 14, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	uc    *UseCase
	st    *domain.SpaceType
	space *domain.Space
}

func newFixture(t *testing.T, totalSlots int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(clockwork.NewFakeClockAt(start.Add(-24 * time.Hour)))

	st, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{
		Name: "Meeting Room", TotalSlots: totalSlots, AvailableSlots: totalSlots, DefaultPrice: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	sp, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "Room A", Status: domain.SpaceAvailable})
	require.NoError(t, err)

	uc := NewUseCase(
		store.Reservations(),
		store.SpaceTypes(),
		store.Spaces(),
		availability.NewTracker(store.Reservations()),
		store.TxManager(),
		metrics.Nop{},
		logger.NewWriter(io.Discard, "error"),
	)

	return &fixture{store: store, uc: uc, st: st, space: sp}
}

// paidReservation оплаченная бронь на 2 часа по ставке 80
func (f *fixture) paidReservation(t *testing.T, customerID int64, spaceID *int64, from time.Time, pax int) *domain.Reservation {
	t.Helper()
	cost := decimal.NewFromInt(160)
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		CustomerID:        customerID,
		SpaceID:           spaceID,
		SpaceTypeID:       ptr.Ptr(f.st.ID),
		PaymentMethod:     domain.PaymentGCash,
		Hours:             2,
		Pax:               pax,
		Status:            domain.StatusPaid,
		StartTime:         from,
		EndTime:           ptr.Ptr(from.Add(2 * time.Hour)),
		Cost:              &cost,
		AmountPaid:        cost,
		AppliedHourlyRate: ptr.Ptr(decimal.NewFromInt(80)),
	})
	require.NoError(t, err)
	return res
}

func customer(id int64) domain.Actor {
	return domain.Actor{CustomerID: ptr.Ptr(id), Role: domain.RoleCustomer}
}

func TestExecute_PaidBecomesPartial(t *testing.T) {
	f := newFixture(t, 5)
	res := f.paidReservation(t, 7, ptr.Ptr(f.space.ID), start, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: customer(7), ReservationID: res.ID, Hours: 2})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPartial), resp.Status)
	assert.Equal(t, "160.00", resp.ExtensionCost.StringFixed(2))
	assert.Equal(t, "320.00", resp.TotalCost.StringFixed(2))
	assert.Equal(t, "160.00", resp.AmountRemaining.StringFixed(2))
	assert.Equal(t, float64(4), resp.Hours)
	assert.Equal(t, start.Add(4*time.Hour), resp.EndTime)

	stored, err := f.store.Reservations().GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, stored.Status)
	assert.Equal(t, "320", stored.Cost.String())
}

func TestExecute_SnapshotRateSurvivesPriceChange(t *testing.T) {
	f := newFixture(t, 5)
	res := f.paidReservation(t, 7, nil, start, 1)

	f.st.DefaultPrice = decimal.NewFromInt(500)
	require.NoError(t, f.store.SpaceTypes().UpdatePricing(context.Background(), f.st))

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: customer(7), ReservationID: res.ID, Hours: 1})
	require.NoError(t, err)
	assert.Equal(t, "80.00", resp.ExtensionCost.StringFixed(2))
}

func TestExecute_Forbidden(t *testing.T) {
	f := newFixture(t, 5)
	res := f.paidReservation(t, 7, nil, start, 1)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: customer(8), ReservationID: res.ID, Hours: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := domain.Actor{Role: domain.RoleAdmin, UserID: ptr.Ptr(int64(1))}
	_, err = f.uc.Execute(context.Background(), &Request{Actor: admin, ReservationID: res.ID, Hours: 1})
	assert.NoError(t, err)
}

func TestExecute_SpaceTakenAfterEnd(t *testing.T) {
	f := newFixture(t, 5)
	res := f.paidReservation(t, 7, ptr.Ptr(f.space.ID), start, 1)
	f.paidReservation(t, 9, ptr.Ptr(f.space.ID), start.Add(3*time.Hour), 1)

	// первый час свободен
	_, err := f.uc.Execute(context.Background(), &Request{Actor: customer(7), ReservationID: res.ID, Hours: 1})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{Actor: customer(7), ReservationID: res.ID, Hours: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_PoolCapacity(t *testing.T) {
	f := newFixture(t, 3)
	res := f.paidReservation(t, 7, nil, start, 2)
	f.paidReservation(t, 9, nil, start.Add(2*time.Hour), 2)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: customer(7), ReservationID: res.ID, Hours: 1})
	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Available)
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	cancelled := f.paidReservation(t, 7, nil, start, 1)
	cancelled.Status = domain.StatusCancelled
	require.NoError(t, f.store.Reservations().Update(ctx, cancelled))

	_, err := f.uc.Execute(ctx, &Request{Actor: customer(7), ReservationID: cancelled.ID, Hours: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	open, err := f.store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 7, Status: domain.StatusActive, StartTime: start, IsOpenTime: true, Pax: 1,
	})
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, &Request{Actor: customer(7), ReservationID: open.ID, Hours: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(ctx, &Request{Actor: customer(7), ReservationID: cancelled.ID, Hours: 13})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(ctx, &Request{Actor: customer(7), ReservationID: 999, Hours: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
