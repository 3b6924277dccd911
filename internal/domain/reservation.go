package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation a booking of a space or of a slot in a space type pool
type Reservation struct {
	ID            int64
	CustomerID    int64
	UserID        *int64
	SpaceID       *int64
	SpaceTypeID   *int64
	PaymentMethod PaymentMethod
	Hours         float64
	Pax           int
	Status        ReservationStatus
	StartTime     time.Time
	EndTime       *time.Time // nil while open time is running

	// Cost nil means it is computed on demand, see TotalCost
	Cost       *decimal.Decimal
	AmountPaid decimal.Decimal

	// Pricing snapshot taken at creation
	CustomHourlyRate          *decimal.Decimal
	AppliedHourlyRate         *decimal.Decimal
	AppliedDiscountHours      *int
	AppliedDiscountPercentage *decimal.Decimal
	IsDiscounted              bool

	IsOpenTime bool
	HoldUntil  *time.Time
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverlapFilter scope of an overlap/capacity lookup. Exactly the non-nil
// scope fields are applied; only active reservations are returned.
type OverlapFilter struct {
	SpaceID     *int64
	SpaceTypeID *int64
	CustomerID  *int64
	Window      TimeWindow
	ExcludeID   *int64
}

// IsActive reports whether the reservation consumes capacity
func (r *Reservation) IsActive() bool {
	for _, s := range InactiveStatuses {
		if r.Status == s {
			return false
		}
	}
	return true
}

// IsTerminal completed and cancelled reservations never change again
func (r *Reservation) IsTerminal() bool {
	return !r.IsActive()
}

func (r *Reservation) IsOpen() bool {
	return r.EndTime == nil
}

func (r *Reservation) Window() TimeWindow {
	return TimeWindow{Start: r.StartTime, End: r.EndTime}
}

// EffectiveRate resolves the hourly rate; space and spaceType may be nil
func (r *Reservation) EffectiveRate(space *Space, spaceType *SpaceType) ResolvedRate {
	return ResolveHourlyRate(r.CustomHourlyRate, r.AppliedHourlyRate, space, spaceType)
}

// EffectiveDiscount resolves the discount; space and spaceType may be nil
func (r *Reservation) EffectiveDiscount(space *Space, spaceType *SpaceType) Discount {
	return ResolveDiscount(r.AppliedDiscountHours, r.AppliedDiscountPercentage, space, spaceType)
}

// BilledHours stored hours, or the elapsed window billed as open time
func (r *Reservation) BilledHours() float64 {
	if r.Hours > 0 {
		return r.Hours
	}
	if r.EndTime == nil {
		return 0
	}
	return BillableHours(r.EndTime.Sub(r.StartTime))
}

// BillableHours bills elapsed time per started hour with a one hour minimum.
// Partial minutes are dropped before rounding.
func BillableHours(elapsed time.Duration) float64 {
	minutes := int(elapsed.Minutes())
	hours := math.Ceil(float64(minutes) / 60)
	if hours < 1 {
		return 1
	}
	return hours
}

// TotalCost stored cost, or billed hours priced by CalculateCost with the
// effective rate and discount. space and spaceType only matter when no
// snapshot exists.
func (r *Reservation) TotalCost(space *Space, spaceType *SpaceType) decimal.Decimal {
	if r.Cost != nil {
		return *r.Cost
	}

	rate := r.EffectiveRate(space, spaceType).Rate
	d := r.EffectiveDiscount(space, spaceType)
	return CalculateCost(r.BilledHours(), rate, d.ThresholdHours, d.Percentage)
}

// AmountRemaining balance still owed, never negative
func (r *Reservation) AmountRemaining(space *Space, spaceType *SpaceType) decimal.Decimal {
	rem := r.TotalCost(space, spaceType).Sub(r.AmountPaid)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

func (r *Reservation) IsPartiallyPaid(space *Space, spaceType *SpaceType) bool {
	total := r.TotalCost(space, spaceType)
	return r.AmountPaid.IsPositive() && r.AmountPaid.LessThan(total)
}

func (r *Reservation) IsFullyPaid(space *Space, spaceType *SpaceType) bool {
	total := r.TotalCost(space, spaceType)
	return total.IsPositive() && r.AmountPaid.GreaterThanOrEqual(total)
}

// HoldExpired reports whether an unpaid cash hold has lapsed at now
func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.Status == StatusOnHold &&
		r.HoldUntil != nil &&
		!now.Before(*r.HoldUntil) &&
		!r.AmountPaid.IsPositive()
}

// AppendNote adds a line to the reservation notes
func (r *Reservation) AppendNote(note string) {
	if r.Notes == nil || *r.Notes == "" {
		r.Notes = &note
		return
	}
	joined := *r.Notes + "\n" + note
	r.Notes = &joined
}

// SnapshotPricing copies rate and discount from the resolved space/type
// so later price changes do not affect this reservation
func (r *Reservation) SnapshotPricing(space *Space, spaceType *SpaceType) {
	rate := ResolveHourlyRate(nil, nil, space, spaceType)
	r.AppliedHourlyRate = &rate.Rate

	d := ResolveDiscount(nil, nil, space, spaceType)
	r.AppliedDiscountHours = d.ThresholdHours
	r.AppliedDiscountPercentage = d.Percentage
}

// Price computes the cost for hours using the reservation's own rate chain
// and marks whether the discount applied
func (r *Reservation) Price(hours float64, space *Space, spaceType *SpaceType) decimal.Decimal {
	rate := r.EffectiveRate(space, spaceType).Rate
	d := r.EffectiveDiscount(space, spaceType)
	r.IsDiscounted = discountApplies(RoundUpToHalfHour(hours), d.ThresholdHours, d.Percentage)
	return CalculateCost(hours, rate, d.ThresholdHours, d.Percentage)
}
