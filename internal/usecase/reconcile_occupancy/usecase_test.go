package reconcile_occupancy

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var checkedAt = time.Date(2026, 5, 11, 15, 0, 0, 0, time.UTC)

type counter struct{ n int }

func (c *counter) OccupancyCorrected() { c.n++ }

func TestExecute_RepairsDrift(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(clockwork.NewFakeClockAt(checkedAt))

	st, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{Name: "Booth", TotalSlots: 3, AvailableSlots: 3})
	require.NoError(t, err)

	// A: занят по проекции, но кэш говорит available
	a, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "A", Status: domain.SpaceAvailable})
	require.NoError(t, err)
	// B: кэш occupied, но open time уже нет
	b, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "B", Status: domain.SpaceAvailable})
	require.NoError(t, err)
	require.NoError(t, store.Spaces().Occupy(ctx, b.ID, 42, checkedAt.Add(-time.Hour)))
	// C: на обслуживании, не трогаем
	c, err := store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "C", Status: domain.SpaceMaintenance})
	require.NoError(t, err)

	since := checkedAt.Add(-30 * time.Minute)
	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID:  7,
		SpaceID:     ptr.Ptr(a.ID),
		SpaceTypeID: ptr.Ptr(st.ID),
		Status:      domain.StatusActive,
		IsOpenTime:  true,
		Pax:         1,
		StartTime:   since,
	})
	require.NoError(t, err)

	rec := &counter{}
	uc := NewUseCase(store.Reservations(), store.Spaces(), store.SpaceTypes(), store.TxManager(), rec, logger.NewWriter(io.Discard, "error"))

	result, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SpacesCorrected)
	assert.Equal(t, 1, result.TypesCorrected)
	assert.Equal(t, 3, rec.n)

	gotA, err := store.Spaces().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceOccupied, gotA.Status)
	assert.Equal(t, int64(7), ptr.Value(gotA.CurrentCustomerID))
	assert.True(t, since.Equal(ptr.Value(gotA.OccupiedFrom)))

	gotB, err := store.Spaces().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, gotB.Status)
	assert.Nil(t, gotB.CurrentCustomerID)

	gotC, err := store.Spaces().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceMaintenance, gotC.Status)

	gotType, err := store.SpaceTypes().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotType.AvailableSlots)

	// второй проход ничего не меняет
	result, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.SpacesCorrected)
	assert.Zero(t, result.TypesCorrected)
}

func TestExecute_NothingToDo(t *testing.T) {
	store := memory.NewStore(clockwork.NewFakeClockAt(checkedAt))
	uc := NewUseCase(store.Reservations(), store.Spaces(), store.SpaceTypes(), store.TxManager(), metrics.Nop{}, logger.NewWriter(io.Discard, "error"))

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
}
