package check_availability

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
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var now = time.Date(2026, 4, 6, 8, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return time.Date(2026, 4, 6, hour, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*UseCase, *domain.SpaceType) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(clockwork.NewFakeClockAt(now))

	desk, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{
		Name: "Hot Desk", TotalSlots: 5, AvailableSlots: 5, DefaultPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = store.SpaceTypes().Create(ctx, &domain.SpaceType{
		Name: "Open Hall", TotalSlots: 40, AvailableSlots: 40, DefaultPrice: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID:  1,
		SpaceTypeID: ptr.Ptr(desk.ID),
		Status:      domain.StatusConfirmed,
		Pax:         3,
		StartTime:   at(10),
		EndTime:     ptr.Ptr(at(12)),
	})
	require.NoError(t, err)

	uc := NewUseCase(
		store.SpaceTypes(),
		availability.NewTracker(store.Reservations()),
		clockwork.NewFakeClockAt(now),
		logger.NewWriter(io.Discard, "error"),
		Options{DayStartHour: 9, DayEndHour: 24},
	)
	return uc, desk
}

func TestExecute_OverlappingWindowShowsRemainingCapacity(t *testing.T) {
	uc, desk := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{StartTime: ptr.Ptr(at(11)), Hours: 2, Pax: 2})
	require.NoError(t, err)
	require.Len(t, resp.SpaceTypes, 2)

	got := resp.SpaceTypes[0]
	assert.Equal(t, desk.ID, got.SpaceTypeID)
	assert.Equal(t, 2, got.AvailableCapacity)
	assert.True(t, got.CanAccommodate)
	assert.Empty(t, got.Alternatives)
	assert.Equal(t, at(13), resp.EndTime)
}

func TestExecute_AlternativesWhenPaxDoesNotFit(t *testing.T) {
	uc, _ := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{StartTime: ptr.Ptr(at(11)), Hours: 2, Pax: 3})
	require.NoError(t, err)

	desk := resp.SpaceTypes[0]
	assert.False(t, desk.CanAccommodate)
	require.Len(t, desk.Alternatives, 11)
	assert.Equal(t, at(12), desk.Alternatives[0].StartTime)
	assert.Equal(t, 5, desk.Alternatives[0].AvailableCapacity)
	assert.Equal(t, at(22), desk.Alternatives[10].StartTime)

	hall := resp.SpaceTypes[1]
	assert.True(t, hall.CanAccommodate)
	assert.Equal(t, 40, hall.AvailableCapacity)
	assert.Empty(t, hall.Alternatives)
}

func TestExecute_DefaultsAndClamp(t *testing.T) {
	uc, _ := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{StartTime: ptr.Ptr(now.Add(-time.Hour))})
	require.NoError(t, err)
	assert.Equal(t, now, resp.StartTime)
	assert.Equal(t, 1, resp.Hours)
	assert.Equal(t, 1, resp.Pax)
}

func TestExecute_Validation(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.Execute(context.Background(), &Request{Hours: 13})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{Pax: 21})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCandidateStarts(t *testing.T) {
	starts := candidateStarts(at(20), at(19).Add(30*time.Minute), 3*time.Hour, 9, 24)
	assert.Equal(t, []time.Time{at(21)}, starts)
}
