package domain

// AvailableCapacity total slots minus the pax of active reservations whose
// window blocks the candidate, floored at 0. excludeID skips the reservation
// being edited.
func AvailableCapacity(totalSlots int, reservations []*Reservation, window TimeWindow, excludeID *int64) int {
	used := 0
	for _, r := range Blocking(reservations, window, excludeID) {
		used += r.Pax
	}

	available := totalSlots - used
	if available < 0 {
		return 0
	}
	return available
}

// Blocking active reservations that conflict with the candidate window
func Blocking(reservations []*Reservation, window TimeWindow, excludeID *int64) []*Reservation {
	out := make([]*Reservation, 0, len(reservations))
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if r.Window().Blocks(window) {
			out = append(out, r)
		}
	}
	return out
}
