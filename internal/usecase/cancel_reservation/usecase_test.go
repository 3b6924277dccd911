package cancel_reservation

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
	"github.com/m04kA/SMC-SpaceBooking/internal/service/refundpolicy"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var (
	now   = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	owner = domain.Actor{CustomerID: ptr.Ptr(int64(4)), Role: domain.RoleCustomer}
)

type fixture struct {
	store  *memory.Store
	events *notifications.Recorder
	uc     *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	store := memory.NewStore(clock)
	events := &notifications.Recorder{}

	policy := refundpolicy.NewPolicy([]refundpolicy.Tier{
		{MinHoursBefore: 24, Percentage: 100},
		{MinHoursBefore: 12, Percentage: 50},
		{MinHoursBefore: 0, Percentage: 25},
	})

	uc := NewUseCase(
		Repositories{
			Reservations: store.Reservations(),
			Spaces:       store.Spaces(),
			SpaceTypes:   store.SpaceTypes(),
			Refunds:      store.Refunds(),
			Ledger:       store.Ledger(),
		},
		policy,
		store.TxManager(),
		events,
		metrics.Nop{},
		clock,
		logger.NewWriter(io.Discard, "error"),
	)
	return &fixture{store: store, events: events, uc: uc}
}

func (f *fixture) reservation(t *testing.T, startsIn time.Duration, paid int64) *domain.Reservation {
	t.Helper()
	start := now.Add(startsIn)
	cost := decimal.NewFromInt(500)
	res, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		CustomerID:    4,
		PaymentMethod: domain.PaymentGCash,
		Hours:         5,
		Pax:           1,
		Status:        domain.StatusPaid,
		StartTime:     start,
		EndTime:       ptr.Ptr(start.Add(5 * time.Hour)),
		Cost:          &cost,
		AmountPaid:    decimal.NewFromInt(paid),
	})
	require.NoError(t, err)
	return res
}

func TestExecute_FullRefundWellBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.reservation(t, 30*time.Hour, 500)

	resp, err := f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 100, resp.Percentage)
	assert.InDelta(t, 30.0, resp.HoursUntilStart, 1e-9)
	assert.Equal(t, "500.00", resp.RefundAmount.StringFixed(2))
	assert.True(t, resp.CancellationFee.IsZero())
	require.NotNil(t, resp.Refund)
	assert.Equal(t, string(domain.RefundPending), resp.Refund.Status)

	refunds, err := f.store.Refunds().ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, "500", refunds[0].OriginalAmountPaid.String())
	assert.Equal(t, "Cancelled 30.0 hours before start time. Refund: 100%", ptr.Value(refunds[0].Notes))
	assert.Contains(t, refunds[0].ReferenceNumber, "REF-")

	entries, err := f.store.Ledger().ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TransactionCancellation, entries[0].Type)
	assert.Equal(t, domain.TransactionRefund, entries[1].Type)
	assert.Equal(t, "-500.00", entries[1].Amount.StringFixed(2))
	assert.Equal(t, domain.TransactionPending, entries[1].Status)

	events := f.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, notifications.EventReservationCancelled, events[0].Type)
	assert.Equal(t, notifications.EventRefundCreated, events[1].Type)
}

func TestExecute_PartialTier(t *testing.T) {
	f := newFixture(t)
	res := f.reservation(t, 13*time.Hour, 300)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: owner, ReservationID: res.ID, Reason: ptr.Ptr("plans changed")})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Percentage)
	assert.Equal(t, "150.00", resp.RefundAmount.StringFixed(2))
	assert.Equal(t, "150.00", resp.CancellationFee.StringFixed(2))

	refunds, err := f.store.Refunds().ListByReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "plans changed", refunds[0].Reason)
}

func TestExecute_AfterStartNoRefundButRecordCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.reservation(t, -time.Hour, 200)

	resp, err := f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Percentage)
	assert.True(t, resp.RefundAmount.IsZero())
	require.NotNil(t, resp.Refund)
	assert.Equal(t, string(domain.RefundCompleted), resp.Refund.Status)

	entries, err := f.store.Ledger().ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.TransactionCancellation, entries[0].Type)
}

func TestExecute_UnpaidHasNoRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.reservation(t, 48*time.Hour, 0)

	resp, err := f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	require.NoError(t, err)
	assert.Nil(t, resp.Refund)

	refunds, err := f.store.Refunds().ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, refunds)
	assert.Len(t, f.events.Events(), 1)
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.reservation(t, 48*time.Hour, 500)

	stranger := domain.Actor{CustomerID: ptr.Ptr(int64(99)), Role: domain.RoleCustomer}
	_, err := f.uc.Execute(ctx, &Request{Actor: stranger, ReservationID: res.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	require.NoError(t, err)

	// повторная отмена ничего не пишет
	_, err = f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	refunds, err := f.store.Refunds().ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Len(t, refunds, 1)
}

func TestExecute_OpenTimeReleasesSpace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.store.SpaceTypes().Create(ctx, &domain.SpaceType{Name: "Booth", TotalSlots: 1, AvailableSlots: 0})
	require.NoError(t, err)
	sp, err := f.store.Spaces().Create(ctx, &domain.Space{SpaceTypeID: st.ID, Name: "B1", Status: domain.SpaceAvailable})
	require.NoError(t, err)
	require.NoError(t, f.store.Spaces().Occupy(ctx, sp.ID, 4, now))

	res, err := f.store.Reservations().Create(ctx, &domain.Reservation{
		CustomerID: 4, SpaceID: ptr.Ptr(sp.ID), SpaceTypeID: ptr.Ptr(st.ID),
		Status: domain.StatusActive, Pax: 1, IsOpenTime: true, StartTime: now,
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{Actor: owner, ReservationID: res.ID})
	require.NoError(t, err)

	gotSpace, err := f.store.Spaces().GetByID(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceAvailable, gotSpace.Status)

	gotType, err := f.store.SpaceTypes().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotType.AvailableSlots)
}
