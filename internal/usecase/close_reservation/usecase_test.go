package close_reservation

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
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var (
	now   = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	admin = domain.Actor{UserID: ptr.Ptr(int64(1)), Role: domain.RoleAdmin}
)

func setup(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	store := memory.NewStore(clock)
	uc := NewUseCase(
		store.Reservations(),
		store.Spaces(),
		store.SpaceTypes(),
		store.TxManager(),
		&notifications.Recorder{},
		metrics.Nop{},
		clock,
		logger.NewWriter(io.Discard, "error"),
	)
	return uc, store
}

func TestExecute_KeepsEndTimeAndCost(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	end := now.Add(-time.Hour)
	cost := decimal.NewFromInt(300)
	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 1, Status: domain.StatusActive, Pax: 1, Hours: 3,
		StartTime: end.Add(-3 * time.Hour), EndTime: &end, Cost: &cost,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Actor: admin, ReservationID: res.ID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, end, resp.EndTime)
	assert.False(t, resp.SpaceReleased)

	stored, err := store.Reservations().GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "300", stored.Cost.String())
}

func TestExecute_OpenTimeReleasesSpace(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	st, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{Name: "Booth", TotalSlots: 2, AvailableSlots: 1})
	require.NoError(t, err)
	sp, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "B1", Status: domain.SpaceAvailable})
	require.NoError(t, err)
	require.NoError(t, store.Spaces().Occupy(ctx, sp.ID, 5, now.Add(-2*time.Hour)))

	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 5, SpaceID: ptr.Ptr(sp.ID), SpaceTypeID: ptr.Ptr(st.ID),
		Status: domain.StatusActive, Pax: 1, IsOpenTime: true, StartTime: now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Actor: admin, ReservationID: res.ID})
	require.NoError(t, err)
	assert.True(t, resp.SpaceReleased)
	assert.Equal(t, now, resp.EndTime)

	gotSpace, err := store.Spaces().GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, gotSpace.Status)
	assert.Nil(t, gotSpace.CurrentCustomerID)

	gotType, err := store.SpaceTypes().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotType.AvailableSlots)
}

func TestExecute_Rejections(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	res, err := store.Reservations().Create(ctx, &domain.Reservation{CustomerID: 1, Status: domain.StatusCancelled, StartTime: now})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{Actor: admin, ReservationID: res.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Execute(ctx, &Request{Actor: domain.Actor{CustomerID: ptr.Ptr(int64(1))}, ReservationID: res.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
