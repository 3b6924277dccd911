package domain

import (
	"github.com/shopspring/decimal"
)

var (
	two        = decimal.NewFromInt(2)
	hundred    = decimal.NewFromInt(100)
	moneyScale = int32(2)
)

// RoundUpToHalfHour rounds hours up to the next multiple of 0.5.
// Non-positive input yields 0.
func RoundUpToHalfHour(hours float64) decimal.Decimal {
	h := decimal.NewFromFloat(hours)
	if !h.IsPositive() {
		return decimal.Zero
	}
	return h.Mul(two).Ceil().Div(two)
}

// CalculateCost prices a booking of the given length.
//
// Hours are rounded up to the nearest half hour. The discount applies when
// both threshold and percentage are set and the rounded hours reach the
// threshold. The result is rounded to cents and never negative.
func CalculateCost(hours float64, hourlyRate decimal.Decimal, discountThresholdHours *int, discountPercent *decimal.Decimal) decimal.Decimal {
	rounded := RoundUpToHalfHour(hours)
	cost := hourlyRate.Mul(rounded)

	if discountApplies(rounded, discountThresholdHours, discountPercent) {
		pct := clampPercent(*discountPercent)
		cost = cost.Sub(cost.Mul(pct).Div(hundred))
	}

	return roundMoney(cost)
}

func discountApplies(rounded decimal.Decimal, threshold *int, pct *decimal.Decimal) bool {
	if threshold == nil || pct == nil {
		return false
	}
	if *threshold <= 0 || !pct.IsPositive() {
		return false
	}
	return rounded.GreaterThanOrEqual(decimal.NewFromInt(int64(*threshold)))
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(moneyScale)
}

// RateSource tags which level of the precedence chain produced a value
type RateSource string

const (
	SourceCustom    RateSource = "custom"
	SourceSnapshot  RateSource = "snapshot"
	SourceSpace     RateSource = "space"
	SourceSpaceType RateSource = "space_type"
	SourceNone      RateSource = "none"
)

// ResolvedRate hourly rate together with the level it came from
type ResolvedRate struct {
	Rate   decimal.Decimal
	Source RateSource
}

// ResolveHourlyRate walks the rate precedence chain:
// custom rate, reservation snapshot, space override, space type rate, zero.
// space and spaceType may be nil.
func ResolveHourlyRate(custom, snapshot *decimal.Decimal, space *Space, spaceType *SpaceType) ResolvedRate {
	switch {
	case custom != nil:
		return ResolvedRate{Rate: *custom, Source: SourceCustom}
	case snapshot != nil:
		return ResolvedRate{Rate: *snapshot, Source: SourceSnapshot}
	case space != nil && space.HourlyRate != nil:
		return ResolvedRate{Rate: *space.HourlyRate, Source: SourceSpace}
	case spaceType != nil:
		return ResolvedRate{Rate: spaceType.Rate(), Source: SourceSpaceType}
	}
	return ResolvedRate{Rate: decimal.Zero, Source: SourceNone}
}

// Discount threshold/percentage pair used by CalculateCost
type Discount struct {
	ThresholdHours *int
	Percentage     *decimal.Decimal
	Source         RateSource
}

// IsSet reports whether both halves of the discount are present
func (d Discount) IsSet() bool {
	return d.ThresholdHours != nil && d.Percentage != nil
}

// ResolveDiscount resolves each discount field through
// reservation snapshot, space override, space type default.
// Source reports where the percentage came from.
func ResolveDiscount(snapshotHours *int, snapshotPct *decimal.Decimal, space *Space, spaceType *SpaceType) Discount {
	d := Discount{ThresholdHours: snapshotHours, Percentage: snapshotPct, Source: SourceNone}
	if snapshotPct != nil {
		d.Source = SourceSnapshot
	}

	if space != nil {
		if d.ThresholdHours == nil {
			d.ThresholdHours = space.DiscountHours
		}
		if d.Percentage == nil && space.DiscountPercentage != nil {
			d.Percentage = space.DiscountPercentage
			d.Source = SourceSpace
		}
	}

	if spaceType != nil {
		if d.ThresholdHours == nil {
			d.ThresholdHours = spaceType.DefaultDiscountHours
		}
		if d.Percentage == nil && spaceType.DefaultDiscountPercentage != nil {
			d.Percentage = spaceType.DefaultDiscountPercentage
			d.Source = SourceSpaceType
		}
	}

	return d
}

// MoneyString formats an amount with two decimals
func MoneyString(d decimal.Decimal) string {
	return d.StringFixed(moneyScale)
}
