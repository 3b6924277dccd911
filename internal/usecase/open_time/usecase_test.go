package open_time

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
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var (
	startedAt = time.Date(2026, 8, 3, 10, 7, 0, 0, time.UTC)
	admin     = domain.Actor{UserID: ptr.Ptr(int64(1)), Role: domain.RoleAdmin}
)

type fixture struct {
	clock  *clockwork.FakeClock
	store  *memory.Store
	events *notifications.Recorder
	uc     *UseCase
	st     *domain.SpaceType
	space  *domain.Space
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(startedAt)
	store := memory.NewStore(clock)

	st, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{
		Name: "Private Booth", TotalSlots: 2, AvailableSlots: 2, DefaultPrice: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	sp, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "Booth 1", Status: domain.SpaceAvailable})
	require.NoError(t, err)

	events := &notifications.Recorder{}
	uc := NewUseCase(
		Repositories{
			Reservations: store.Reservations(),
			Spaces:       store.Spaces(),
			SpaceTypes:   store.SpaceTypes(),
			Customers:    store.Customers(),
		},
		availability.NewTracker(store.Reservations()),
		store.TxManager(),
		events,
		metrics.Nop{},
		clock,
		logger.NewWriter(io.Discard, "error"),
	)

	return &fixture{clock: clock, store: store, events: events, uc: uc, st: st, space: sp}
}

func (f *fixture) start(t *testing.T) *StartResponse {
	t.Helper()
	resp, err := f.uc.Start(context.Background(), &StartRequest{
		Actor:    admin,
		SpaceID:  f.space.ID,
		Customer: &CustomerInput{Name: "Walk In", Email: "Walk.In@example.com"},
	})
	require.NoError(t, err)
	return resp
}

func TestOpenTime_BillsCeilHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started := f.start(t)
	assert.Equal(t, "Booth 1", started.SpaceName)
	assert.Equal(t, "50", started.HourlyRate.String())

	sp, err := f.store.Spaces().GetByID(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceOccupied, sp.Status)
	assert.Equal(t, started.CustomerID, ptr.Value(sp.CurrentCustomerID))

	st, err := f.store.SpaceTypes().GetByID(ctx, f.st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.AvailableSlots)

	// 10:07 -> 11:50, 103 минуты
	f.clock.Advance(103 * time.Minute)

	ended, err := f.uc.End(ctx, &EndRequest{Actor: admin, ReservationID: started.ReservationID})
	require.NoError(t, err)
	assert.Equal(t, 103, ended.ElapsedMinutes)
	assert.Equal(t, float64(2), ended.BilledHours)
	assert.Equal(t, "100.00", ended.TotalCost.StringFixed(2))
	assert.Equal(t, string(domain.StatusCompleted), ended.Status)

	res, err := f.store.Reservations().GetByID(ctx, started.ReservationID)
	require.NoError(t, err)
	assert.True(t, res.AmountPaid.IsZero())
	assert.Equal(t, started.StartTime.Add(103*time.Minute), *res.EndTime)

	sp, err = f.store.Spaces().GetByID(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, sp.Status)

	st, err = f.store.SpaceTypes().GetByID(ctx, f.st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.AvailableSlots)

	require.Len(t, f.events.Events(), 1)
}

func TestOpenTime_MinimumOneHour(t *testing.T) {
	f := newFixture(t)
	started := f.start(t)

	f.clock.Advance(10 * time.Minute)
	ended, err := f.uc.End(context.Background(), &EndRequest{Actor: admin, ReservationID: started.ReservationID})
	require.NoError(t, err)
	assert.Equal(t, float64(1), ended.BilledHours)
	assert.Equal(t, "50.00", ended.TotalCost.StringFixed(2))
}

func TestOpenTime_SpaceAlreadyTaken(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	_, err := f.uc.Start(context.Background(), &StartRequest{
		Actor:    admin,
		SpaceID:  f.space.ID,
		Customer: &CustomerInput{Name: "Other", Email: "other@example.com"},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	st, err := f.store.SpaceTypes().GetByID(context.Background(), f.st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.AvailableSlots)
}

func TestOpenTime_BookedSpaceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 42,
		SpaceID:    ptr.Ptr(f.space.ID),
		Status:     domain.StatusConfirmed,
		Pax:        1,
		StartTime:  startedAt.Add(-30 * time.Minute),
		EndTime:    ptr.Ptr(startedAt.Add(time.Hour)),
	})
	require.NoError(t, err)

	_, err = f.uc.Start(ctx, &StartRequest{
		Actor:    admin,
		SpaceID:  f.space.ID,
		Customer: &CustomerInput{Name: "Walk In", Email: "walk@example.com"},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	sp, err := f.store.Spaces().GetByID(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, sp.Status)
}

func TestOpenTime_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.Actor{CustomerID: ptr.Ptr(int64(1)), Role: domain.RoleCustomer}
	_, err := f.uc.Start(ctx, &StartRequest{Actor: customer, SpaceID: f.space.ID, CustomerID: ptr.Ptr(int64(1))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Start(ctx, &StartRequest{Actor: admin, SpaceID: f.space.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Start(ctx, &StartRequest{Actor: admin, SpaceID: f.space.ID, CustomerID: ptr.Ptr(int64(777))})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bounded, err := f.store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 1, Status: domain.StatusActive, StartTime: startedAt, EndTime: ptr.Ptr(startedAt.Add(time.Hour)),
	})
	require.NoError(t, err)
	_, err = f.uc.End(ctx, &EndRequest{Actor: admin, ReservationID: bounded.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOpenTime_PoolCapacityExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booth2, err := f.store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: f.st.ID, Name: "Booth 2", Status: domain.SpaceAvailable})
	require.NoError(t, err)
	_, err = f.store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID:  42,
		SpaceID:     ptr.Ptr(booth2.ID),
		SpaceTypeID: ptr.Ptr(f.st.ID),
		Status:      domain.StatusConfirmed,
		Pax:         2,
		Hours:       2,
		StartTime:   startedAt,
		EndTime:     ptr.Ptr(startedAt.Add(2 * time.Hour)),
	})
	require.NoError(t, err)

	_, err = f.uc.Start(ctx, &StartRequest{
		Actor:    admin,
		SpaceID:  f.space.ID,
		Customer: &CustomerInput{Name: "Walk In", Email: "walk@example.com"},
	})
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Available)
	assert.Equal(t, 1, capErr.Requested)

	sp, err := f.store.Spaces().GetByID(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, sp.Status)

	st, err := f.store.SpaceTypes().GetByID(ctx, f.st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.AvailableSlots)
}
