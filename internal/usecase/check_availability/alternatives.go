package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// candidateStarts часовые начала в пределах рабочего дня, в который попадает
// start. Слот должен закончиться не позже конца дня и начаться не раньше now.
// Сам start в список не входит.
func candidateStarts(start, now time.Time, duration time.Duration, dayStartHour, dayEndHour int) []time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := day.Add(time.Duration(dayEndHour) * time.Hour)

	starts := make([]time.Time, 0)
	for h := dayStartHour; h < dayEndHour; h++ {
		slot := day.Add(time.Duration(h) * time.Hour)
		if slot.Add(duration).After(dayEnd) {
			break
		}
		if slot.Before(now) || slot.Equal(start) {
			continue
		}
		starts = append(starts, slot)
	}

	return starts
}

// findAlternatives окна того же дня, где тип вмещает pax
func (uc *UseCase) findAlternatives(ctx context.Context, st *domain.SpaceType, start, now time.Time, duration time.Duration, pax int) ([]Alternative, error) {
	alternatives := make([]Alternative, 0)

	for _, slot := range candidateStarts(start, now, duration, uc.opts.DayStartHour, uc.opts.DayEndHour) {
		window := domain.NewWindow(slot, duration)
		available, err := uc.tracker.AvailableCapacity(ctx, st, window, nil)
		if err != nil {
			return nil, err
		}
		if available >= pax {
			alternatives = append(alternatives, Alternative{
				StartTime:         slot,
				EndTime:           *window.End,
				AvailableCapacity: available,
			})
		}
	}

	return alternatives, nil
}
