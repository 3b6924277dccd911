package spaces

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
	"github.com/m04kA/SMC-SpaceBooking/internal/service/spaces/models"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var admin = domain.Actor{UserID: ptr.Ptr(int64(1)), Role: domain.RoleAdmin}

func newService() (*Service, *memory.Store) {
	store := memory.NewStore(clockwork.NewFakeClockAt(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))
	return NewService(store.SpaceTypes(), store.Spaces(), store.TxManager(), logger.NewWriter(io.Discard, "error")), store
}

func TestPoolAdministration_KeepsCountersInStep(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	st, err := svc.CreateSpaceType(ctx, admin, &models.CreateSpaceTypeRequest{Name: "Hot Desk", DefaultPrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalSlots)
	assert.Equal(t, "100.00", st.HourlyRate)
	assert.Equal(t, "per_person", st.PricingType)

	a, err := svc.AddSpace(ctx, admin, st.ID, &models.AddSpaceRequest{Name: "Desk A"})
	require.NoError(t, err)
	_, err = svc.AddSpace(ctx, admin, st.ID, &models.AddSpaceRequest{Name: "Desk B", HourlyRate: ptr.Ptr(decimal.NewFromInt(120))})
	require.NoError(t, err)

	list, err := svc.ListSpaceTypes(ctx)
	require.NoError(t, err)
	require.Len(t, list.SpaceTypes, 1)
	assert.Equal(t, 2, list.SpaceTypes[0].TotalSlots)
	assert.Equal(t, 2, list.SpaceTypes[0].AvailableSlots)
	require.Len(t, list.SpaceTypes[0].Spaces, 2)
	assert.Equal(t, "120.00", ptr.Value(list.SpaceTypes[0].Spaces[1].HourlyRate))

	require.NoError(t, svc.RemoveSpace(ctx, admin, a.ID))

	got, err := store.SpaceTypes().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalSlots)
	assert.Equal(t, 1, got.AvailableSlots)

	_, err = store.Spaces().GetByID(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveSpace_OccupiedIsRejected(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	st, err := svc.CreateSpaceType(ctx, admin, &models.CreateSpaceTypeRequest{Name: "Booth", DefaultPrice: decimal.NewFromInt(50)})
	require.NoError(t, err)
	sp, err := svc.AddSpace(ctx, admin, st.ID, &models.AddSpaceRequest{Name: "Booth 1"})
	require.NoError(t, err)
	require.NoError(t, store.Spaces().Occupy(ctx, sp.ID, 3, time.Now()))

	err = svc.RemoveSpace(ctx, admin, sp.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := store.SpaceTypes().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalSlots)
}

func TestUpdatePricing_DefaultPriceMirrorsIntoHourlyRate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	st, err := svc.CreateSpaceType(ctx, admin, &models.CreateSpaceTypeRequest{
		Name:         "Meeting Room",
		DefaultPrice: decimal.NewFromInt(300),
		HourlyRate:   ptr.Ptr(decimal.NewFromInt(280)),
	})
	require.NoError(t, err)
	assert.Equal(t, "280.00", st.HourlyRate)

	updated, err := svc.UpdatePricing(ctx, admin, st.ID, &models.UpdatePricingRequest{DefaultPrice: ptr.Ptr(decimal.NewFromInt(350))})
	require.NoError(t, err)
	assert.Equal(t, "350.00", updated.DefaultPrice)
	assert.Equal(t, "350.00", updated.HourlyRate)

	updated, err = svc.UpdatePricing(ctx, admin, st.ID, &models.UpdatePricingRequest{
		DefaultPrice: ptr.Ptr(decimal.NewFromInt(400)),
		HourlyRate:   ptr.Ptr(decimal.NewFromInt(390)),
	})
	require.NoError(t, err)
	assert.Equal(t, "400.00", updated.DefaultPrice)
	assert.Equal(t, "390.00", updated.HourlyRate)
}

func TestAdministration_Rejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	customer := domain.Actor{CustomerID: ptr.Ptr(int64(4)), Role: domain.RoleCustomer}

	_, err := svc.CreateSpaceType(ctx, customer, &models.CreateSpaceTypeRequest{Name: "X"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreateSpaceType(ctx, admin, &models.CreateSpaceTypeRequest{Name: ""})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateSpaceType(ctx, admin, &models.CreateSpaceTypeRequest{Name: "X", DefaultPrice: decimal.NewFromInt(-5)})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdatePricing(ctx, admin, 777, &models.UpdatePricingRequest{DefaultDiscountPercentage: ptr.Ptr(decimal.NewFromInt(150))})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdatePricing(ctx, admin, 777, &models.UpdatePricingRequest{})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddSpace(ctx, admin, 777, &models.AddSpaceRequest{Name: "Ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, svc.RemoveSpace(ctx, admin, 777), domain.ErrNotFound)
}
