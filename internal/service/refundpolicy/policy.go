package refundpolicy

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Tier отмена не позже чем за MinHoursBefore часов до начала
// возвращает Percentage процентов оплаченного
type Tier struct {
	MinHoursBefore float64
	Percentage     int
}

// Policy ступенчатая политика возврата по времени до начала бронирования
type Policy struct {
	tiers []Tier
}

// NewPolicy упорядочивает ступени по убыванию порога. Процент каждой
// ступени не больше процента предыдущей, так что более поздняя отмена
// никогда не возвращает больше.
func NewPolicy(tiers []Tier) *Policy {
	sorted := append([]Tier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinHoursBefore > sorted[j].MinHoursBefore })

	for i := range sorted {
		sorted[i].Percentage = clamp(sorted[i].Percentage)
		if i > 0 && sorted[i].Percentage > sorted[i-1].Percentage {
			sorted[i].Percentage = sorted[i-1].Percentage
		}
	}

	return &Policy{tiers: sorted}
}

// Percentage процент возврата при отмене за hoursUntilStart часов.
// После начала бронирования возврата нет.
func (p *Policy) Percentage(hoursUntilStart float64) int {
	if hoursUntilStart < 0 {
		return 0
	}
	for _, t := range p.tiers {
		if hoursUntilStart >= t.MinHoursBefore {
			return t.Percentage
		}
	}
	return 0
}

// Calculate сумма возврата и удержание при отмене в момент now
func (p *Policy) Calculate(res *domain.Reservation, now time.Time) domain.RefundQuote {
	hoursUntil := res.StartTime.Sub(now).Hours()
	pct := p.Percentage(hoursUntil)

	paid := res.AmountPaid
	if paid.IsNegative() {
		paid = decimal.Zero
	}

	keep := decimal.NewFromInt(int64(100 - pct)).Div(decimal.NewFromInt(100))
	fee := paid.Mul(keep).Round(2)

	return domain.RefundQuote{
		RefundAmount:    paid.Sub(fee),
		CancellationFee: fee,
		HoursUntilStart: hoursUntil,
		Percentage:      pct,
	}
}

func clamp(pct int) int {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
