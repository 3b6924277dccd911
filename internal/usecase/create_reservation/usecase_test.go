package create_reservation

import (
	"context"
	"fmt"
	"io"
	"sync"
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

var now = time.Date(2026, 4, 6, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	clock     *clockwork.FakeClock
	events    *notifications.Recorder
	uc        *UseCase
	spaceType *domain.SpaceType
	spaces    []*domain.Space
}

func newFixture(t *testing.T, totalSlots, spaces int) *fixture {
	t.Helper()
	ctx := context.Background()

	clock := clockwork.NewFakeClockAt(now)
	store := memory.NewStore(clock)

	rate := decimal.NewFromInt(100)
	st, err := store.SpaceTypes().Create(ctx, &domain.SpaceType{
		Name:                      "Hot Desk",
		TotalSlots:                totalSlots,
		AvailableSlots:            totalSlots,
		DefaultPrice:              rate,
		PricingType:               domain.PricingPerPerson,
		DefaultDiscountHours:      ptr.Ptr(3),
		DefaultDiscountPercentage: ptr.Ptr(decimal.NewFromInt(10)),
	})
	require.NoError(t, err)

	f := &fixture{store: store, clock: clock, events: &notifications.Recorder{}, spaceType: st}
	for i := 0; i < spaces; i++ {
		sp, err := store.Spaces().Create(ctx, &domain.Space{
			SpaceTypeID: st.ID,
			Name:        fmt.Sprintf("Desk %d", i+1),
			Status:      domain.SpaceAvailable,
		})
		require.NoError(t, err)
		f.spaces = append(f.spaces, sp)
	}

	f.uc = NewUseCase(
		Repositories{
			Reservations: store.Reservations(),
			SpaceTypes:   store.SpaceTypes(),
			Spaces:       store.Spaces(),
			Customers:    store.Customers(),
			Ledger:       store.Ledger(),
		},
		availability.NewTracker(store.Reservations()),
		store.TxManager(),
		f.events,
		metrics.Nop{},
		clock,
		logger.NewWriter(io.Discard, "error"),
		Options{
			MaxActiveCashBookings:        2,
			CancellationCheckMinBookings: 5,
			MaxCancellationRatePercent:   50,
			HoldDuration:                 time.Hour,
		},
	)

	return f
}

func (f *fixture) request(email, method string, start time.Time, hours float64, pax int) *Request {
	return &Request{
		SpaceTypeID:   f.spaceType.ID,
		PaymentMethod: method,
		Hours:         hours,
		Pax:           pax,
		StartTime:     &start,
		Customer:      CustomerInput{Name: "Guest", Email: email},
	}
}

func TestExecute_CashBookingIsHeld(t *testing.T) {
	f := newFixture(t, 5, 2)

	start := now.Add(2 * time.Hour)
	resp, err := f.uc.Execute(context.Background(), f.request("ana@example.com", "cash", start, 3, 1))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusOnHold), resp.Status)
	assert.Equal(t, "270.00", resp.TotalCost.StringFixed(2))
	assert.True(t, resp.IsDiscounted)
	assert.True(t, resp.AmountPaid.IsZero())
	require.NotNil(t, resp.HoldUntil)
	assert.Equal(t, now.Add(time.Hour), *resp.HoldUntil)
	assert.Equal(t, "Hot Desk", resp.SpaceTypeName)
	require.NotNil(t, resp.SpaceName)
	assert.Equal(t, "Desk 1", *resp.SpaceName)

	res, err := f.store.Reservations().GetByID(context.Background(), resp.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, "100", res.AppliedHourlyRate.String())
	assert.Equal(t, 3, ptr.Value(res.AppliedDiscountHours))

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notifications.EventReservationCreated, events[0].Type)
}

func TestExecute_InstantPaymentRecordsLedger(t *testing.T) {
	f := newFixture(t, 5, 1)

	resp, err := f.uc.Execute(context.Background(), f.request("ben@example.com", "gcash", now.Add(time.Hour), 2, 1))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPaid), resp.Status)
	assert.Equal(t, "200.00", resp.AmountPaid.StringFixed(2))

	entries, err := f.store.Ledger().ListByReservation(context.Background(), resp.ReservationID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.TransactionPayment, entries[0].Type)
	assert.Equal(t, "200.00", entries[0].Amount.StringFixed(2))
	assert.Contains(t, entries[0].ReferenceNumber, "PAY-")
}

func TestExecute_StaffMethodStartsPending(t *testing.T) {
	f := newFixture(t, 5, 1)

	req := f.request("cy@example.com", "bank", now.Add(time.Hour), 1, 1)
	req.Actor = domain.Actor{Role: domain.RoleAdmin, UserID: ptr.Ptr(int64(1))}
	req.CustomHourlyRate = ptr.Ptr(decimal.NewFromInt(40))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "40.00", resp.TotalCost.StringFixed(2))
}

func TestExecute_PastStartIsClamped(t *testing.T) {
	f := newFixture(t, 5, 0)

	resp, err := f.uc.Execute(context.Background(), f.request("dan@example.com", "maya", now.Add(-3*time.Hour), 1, 1))
	require.NoError(t, err)

	assert.Equal(t, now, resp.StartTime)
	assert.Equal(t, now.Add(time.Hour), resp.EndTime)
	assert.Nil(t, resp.SpaceName)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t, 5, 0)
	start := now.Add(time.Hour)

	tests := []struct {
		name string
		req  *Request
	}{
		{"too many hours", f.request("a@example.com", "cash", start, 13, 1)},
		{"too many pax", f.request("a@example.com", "cash", start, 1, 21)},
		{"unknown method", f.request("a@example.com", "bitcoin", start, 1, 1)},
		{"staff-only method", f.request("a@example.com", "card", start, 1, 1)},
		{"bad email", f.request("not-an-email", "cash", start, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	req := f.request("a@example.com", "cash", start, 1, 1)
	req.CustomHourlyRate = ptr.Ptr(decimal.NewFromInt(1))
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_UnknownSpaceType(t *testing.T) {
	f := newFixture(t, 5, 0)
	req := f.request("a@example.com", "gcash", now.Add(time.Hour), 1, 1)
	req.SpaceTypeID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrSpaceTypeNotFound)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()
	start := now.Add(time.Hour)

	_, err := f.uc.Execute(ctx, f.request("a@example.com", "gcash", start, 2, 3))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("b@example.com", "gcash", start.Add(time.Hour), 2, 3))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Available)

	_, err = f.uc.Execute(ctx, f.request("b@example.com", "gcash", start.Add(time.Hour), 2, 2))
	assert.NoError(t, err)
}

func TestExecute_DedicatedSpaceConflict(t *testing.T) {
	f := newFixture(t, 10, 2)
	ctx := context.Background()
	start := now.Add(time.Hour)

	req := f.request("a@example.com", "gcash", start, 2, 1)
	req.SpaceID = &f.spaces[1].ID
	_, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)

	req = f.request("b@example.com", "gcash", start.Add(time.Hour), 2, 1)
	req.SpaceID = &f.spaces[1].ID
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// touching windows do not conflict
	req = f.request("b@example.com", "gcash", start.Add(2*time.Hour), 1, 1)
	req.SpaceID = &f.spaces[1].ID
	_, err = f.uc.Execute(ctx, req)
	assert.NoError(t, err)
}

func TestExecute_ConcurrentDedicatedBookings(t *testing.T) {
	f := newFixture(t, 20, 1)
	start := now.Add(time.Hour)

	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := f.request(fmt.Sprintf("c%d@example.com", i), "gcash", start.Add(time.Duration(i)*time.Minute), 1, 1)
			req.SpaceID = &f.spaces[0].ID

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestExecute_CapacityConservation(t *testing.T) {
	const total = 6
	f := newFixture(t, total, 0)
	ctx := context.Background()
	start := now.Add(time.Hour)
	window := domain.NewWindow(start, 2*time.Hour)

	paxes := []int{2, 3, 2, 1, 4, 1, 1}
	var created []int64
	for i, pax := range paxes {
		resp, err := f.uc.Execute(ctx, f.request(fmt.Sprintf("p%d@example.com", i), "gcash", start, 2, pax))
		if err == nil {
			created = append(created, resp.ReservationID)
		} else {
			require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		}
		assert.LessOrEqual(t, usedPax(t, f, window), total)

		// освобождаем место каждой третьей брони
		if i%3 == 2 && len(created) > 0 {
			res, err := f.store.Reservations().GetByID(ctx, created[0])
			require.NoError(t, err)
			res.Status = domain.StatusCancelled
			require.NoError(t, f.store.Reservations().Update(ctx, res))
			created = created[1:]
		}
	}

	// остались брони с pax 1, 1 и 1
	assert.Len(t, created, 3)
	assert.Equal(t, 3, usedPax(t, f, window))
}

func usedPax(t *testing.T, f *fixture, window domain.TimeWindow) int {
	t.Helper()
	list, err := f.store.Reservations().ListBlocking(context.Background(), domain.OverlapFilter{
		SpaceTypeID: &f.spaceType.ID,
		Window:      window,
	})
	require.NoError(t, err)

	used := 0
	for _, r := range list {
		used += r.Pax
	}
	return used
}

func TestExecute_CustomerSelfOverlap(t *testing.T) {
	f := newFixture(t, 10, 0)
	ctx := context.Background()
	start := now.Add(time.Hour)

	_, err := f.uc.Execute(ctx, f.request("solo@example.com", "gcash", start, 2, 1))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, f.request("SOLO@example.com", "gcash", start.Add(time.Hour), 1, 1))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_CashGuard(t *testing.T) {
	f := newFixture(t, 10, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.uc.Execute(ctx, f.request("cash@example.com", "cash", now.Add(time.Duration(i*2+1)*time.Hour), 1, 1))
		require.NoError(t, err)
	}

	_, err := f.uc.Execute(ctx, f.request("cash@example.com", "cash", now.Add(8*time.Hour), 1, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(ctx, f.request("cash@example.com", "gcash", now.Add(8*time.Hour), 1, 1))
	assert.NoError(t, err)
}

func TestExecute_CashGuardCancellationRate(t *testing.T) {
	f := newFixture(t, 10, 0)
	ctx := context.Background()

	// 6 бронирований, 4 из них отменены
	for i := 0; i < 6; i++ {
		resp, err := f.uc.Execute(ctx, f.request("flaky@example.com", "gcash", now.Add(time.Duration(i*2+1)*time.Hour), 1, 1))
		require.NoError(t, err)
		if i < 4 {
			res, err := f.store.Reservations().GetByID(ctx, resp.ReservationID)
			require.NoError(t, err)
			res.Status = domain.StatusCancelled
			require.NoError(t, f.store.Reservations().Update(ctx, res))
		}
	}

	_, err := f.uc.Execute(ctx, f.request("flaky@example.com", "cash", now.Add(20*time.Hour), 1, 1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
