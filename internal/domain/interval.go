package domain

import "time"

// TimeWindow half-open interval [Start, End). A nil End means the window is
// still running (open time).
type TimeWindow struct {
	Start time.Time
	End   *time.Time
}

// NewWindow builds a bounded window of the given length
func NewWindow(start time.Time, d time.Duration) TimeWindow {
	end := start.Add(d)
	return TimeWindow{Start: start, End: &end}
}

// IsOpen reports whether the window has no end yet
func (w TimeWindow) IsOpen() bool {
	return w.End == nil
}

// ProbeEnd is the end used when w is the candidate of an overlap check.
// An open candidate is treated as lasting OpenWindowProbe.
func (w TimeWindow) ProbeEnd() time.Time {
	if w.End != nil {
		return *w.End
	}
	return w.Start.Add(OpenWindowProbe)
}

// IntervalsOverlap strict half-open overlap test; touching edges do not overlap
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Blocks reports whether existing window w conflicts with candidate.
// An open existing window extends to infinity.
func (w TimeWindow) Blocks(candidate TimeWindow) bool {
	candEnd := candidate.ProbeEnd()
	if w.End == nil {
		return w.Start.Before(candEnd)
	}
	return IntervalsOverlap(w.Start, *w.End, candidate.Start, candEnd)
}
