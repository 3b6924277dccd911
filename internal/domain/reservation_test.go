package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/pkg/ptr"
)

var base = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestIntervalsOverlap_Symmetric(t *testing.T) {
	windows := [][2]time.Time{
		{at(10, 0), at(12, 0)},
		{at(11, 0), at(13, 0)},
		{at(12, 0), at(14, 0)},
		{at(9, 0), at(15, 0)},
		{at(8, 0), at(10, 0)},
	}

	for _, a := range windows {
		for _, b := range windows {
			assert.Equal(t,
				IntervalsOverlap(a[0], a[1], b[0], b[1]),
				IntervalsOverlap(b[0], b[1], a[0], a[1]),
			)
		}
	}

	assert.True(t, IntervalsOverlap(at(10, 0), at(12, 0), at(11, 0), at(13, 0)))
	assert.False(t, IntervalsOverlap(at(10, 0), at(12, 0), at(12, 0), at(14, 0)), "touching edges")
}

func TestBlocks_OpenWindows(t *testing.T) {
	open := TimeWindow{Start: at(10, 0)}

	// existing open reservation runs to infinity
	assert.True(t, open.Blocks(NewWindow(at(20, 0), time.Hour)))
	assert.False(t, open.Blocks(NewWindow(at(8, 0), 2*time.Hour)))

	// open candidate probes one minute
	bounded := NewWindow(at(10, 0), time.Hour)
	assert.True(t, bounded.Blocks(TimeWindow{Start: at(10, 59)}))
	assert.False(t, bounded.Blocks(TimeWindow{Start: at(11, 0)}))
	assert.False(t, NewWindow(at(11, 0), time.Hour).Blocks(TimeWindow{Start: at(10, 59)}))
}

func TestAvailableCapacity_Scenario(t *testing.T) {
	existing := []*Reservation{
		{ID: 1, Pax: 3, Status: StatusPaid, StartTime: at(10, 0), EndTime: ptr.Ptr(at(12, 0))},
	}

	got := AvailableCapacity(5, existing, NewWindow(at(11, 0), 2*time.Hour), nil)
	assert.Equal(t, 2, got)
}

func TestAvailableCapacity_IgnoresInactiveAndSelf(t *testing.T) {
	existing := []*Reservation{
		{ID: 1, Pax: 2, Status: StatusConfirmed, StartTime: at(10, 0), EndTime: ptr.Ptr(at(12, 0))},
		{ID: 2, Pax: 4, Status: StatusCancelled, StartTime: at(10, 0), EndTime: ptr.Ptr(at(12, 0))},
		{ID: 3, Pax: 4, Status: StatusCompleted, StartTime: at(10, 0), EndTime: ptr.Ptr(at(12, 0))},
		{ID: 4, Pax: 1, Status: StatusActive, StartTime: at(9, 0)}, // open time
	}
	window := NewWindow(at(11, 0), time.Hour)

	assert.Equal(t, 2, AvailableCapacity(5, existing, window, nil))
	assert.Equal(t, 4, AvailableCapacity(5, existing, window, ptr.Ptr(int64(1))))
	assert.Equal(t, 0, AvailableCapacity(2, existing, window, nil))
}

func TestTotalCost_OnDemand(t *testing.T) {
	r := &Reservation{
		Hours:                     3,
		AppliedHourlyRate:         ptr.Ptr(dec("100")),
		AppliedDiscountHours:      ptr.Ptr(3),
		AppliedDiscountPercentage: ptr.Ptr(dec("10")),
		AmountPaid:                dec("100"),
	}

	assert.Equal(t, "270.00", MoneyString(r.TotalCost(nil, nil)))
	assert.Equal(t, "170.00", MoneyString(r.AmountRemaining(nil, nil)))
	assert.True(t, r.IsPartiallyPaid(nil, nil))
	assert.False(t, r.IsFullyPaid(nil, nil))

	r.AmountPaid = dec("300")
	assert.True(t, r.AmountRemaining(nil, nil).IsZero())
	assert.True(t, r.IsFullyPaid(nil, nil))
}

func TestTotalCost_StoredCostWins(t *testing.T) {
	r := &Reservation{Hours: 3, AppliedHourlyRate: ptr.Ptr(dec("100")), Cost: ptr.Ptr(dec("42.5"))}
	assert.Equal(t, "42.50", MoneyString(r.TotalCost(nil, nil)))
}

func TestTotalCost_FallsBackToWindowHours(t *testing.T) {
	r := &Reservation{StartTime: at(10, 0), EndTime: ptr.Ptr(at(12, 40)), AppliedHourlyRate: ptr.Ptr(dec("50"))}
	assert.Equal(t, float64(3), r.BilledHours())
	assert.Equal(t, "150.00", MoneyString(r.TotalCost(nil, nil)))
}

func TestTotalCost_DiscountFollowsThreshold(t *testing.T) {
	tests := []struct {
		name       string
		hours      float64
		discounted bool
		want       string
	}{
		{"flag set below threshold", 2, true, "200.00"},
		{"flag unset at threshold", 3, false, "270.00"},
		{"half hour rounds up", 2.2, false, "250.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{
				Hours:                     tt.hours,
				IsDiscounted:              tt.discounted,
				AppliedHourlyRate:         ptr.Ptr(dec("100")),
				AppliedDiscountHours:      ptr.Ptr(3),
				AppliedDiscountPercentage: ptr.Ptr(dec("10")),
			}
			assert.Equal(t, tt.want, MoneyString(r.TotalCost(nil, nil)))
		})
	}
}

func TestBillableHours(t *testing.T) {
	assert.Equal(t, float64(1), BillableHours(0))
	assert.Equal(t, float64(1), BillableHours(10*time.Minute+30*time.Second))
	assert.Equal(t, float64(1), BillableHours(60*time.Minute))
	assert.Equal(t, float64(2), BillableHours(61*time.Minute))
	assert.Equal(t, float64(2), BillableHours(103*time.Minute))
}

func TestIsFullyPaid_ZeroTotal(t *testing.T) {
	r := &Reservation{Cost: ptr.Ptr(dec("0"))}
	assert.False(t, r.IsFullyPaid(nil, nil))
	assert.False(t, r.IsPartiallyPaid(nil, nil))
}

func TestCheckTransition(t *testing.T) {
	r := &Reservation{Status: StatusCompleted}
	err := r.CheckTransition(ActionCancel)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var stErr *StateTransitionError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, StatusCompleted, stErr.From)

	r.Status = StatusPaid
	assert.NoError(t, r.CheckTransition(ActionCancel))
	assert.Error(t, r.CheckTransition(ActionEndEarly))

	r.Status = StatusActive
	assert.NoError(t, r.CheckTransition(ActionEndEarly))

	r.Status = StatusCancelled
	assert.Error(t, r.CheckTransition(ActionUpdate))
}

func TestHoldExpired(t *testing.T) {
	r := &Reservation{Status: StatusOnHold, HoldUntil: ptr.Ptr(at(11, 0))}

	assert.False(t, r.HoldExpired(at(10, 59)))
	assert.True(t, r.HoldExpired(at(11, 0)))

	r.AmountPaid = dec("10")
	assert.False(t, r.HoldExpired(at(12, 0)))
}

func TestCapacityExceededError(t *testing.T) {
	var err error = &CapacityExceededError{Available: 2, Requested: 3}
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Contains(t, err.Error(), "available 2")
}

func TestNewReferenceNumber(t *testing.T) {
	ref := NewReferenceNumber(RefPrefixPayment)
	assert.Len(t, ref, len("PAY-")+12)
	assert.NotEqual(t, ref, NewReferenceNumber(RefPrefixPayment))
}

func TestCustomerStats_CancellationRate(t *testing.T) {
	assert.Equal(t, 0.0, CustomerStats{}.CancellationRate())
	assert.InDelta(t, 66.67, CustomerStats{TotalBookings: 6, CancelledBookings: 4}.CancellationRate(), 0.01)
}

func TestActor_CanAccess(t *testing.T) {
	userID := int64(10)
	res := &Reservation{CustomerID: 5, UserID: &userID}

	otherUser := int64(11)
	customer := int64(5)

	assert.True(t, Actor{Role: RoleAdmin}.CanAccess(res))
	assert.True(t, Actor{UserID: &userID}.CanAccess(res))
	assert.True(t, Actor{UserID: &otherUser, CustomerID: &customer}.CanAccess(res))
	assert.False(t, Actor{UserID: &otherUser}.CanAccess(res))
	assert.False(t, Actor{}.CanAccess(res))
}
