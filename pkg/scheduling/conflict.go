package scheduling

import (
	"time"

	"roombook/pkg/model"
)

// FindConflict returns the first booking whose [StartTime, EndTime) interval
// overlaps [start, end), or nil when the candidate interval is free. The
// existing slice is expected to hold a single room's bookings. Touching
// endpoints are not conflicts: an existing 09:00–10:00 booking leaves a
// 10:00–11:00 candidate free.
//
// Callers must reject end <= start before calling; this function does not
// re-validate the candidate.
func FindConflict(existing []*model.Booking, start, end time.Time) *model.Booking {
	for _, b := range existing {
		if b.EndTime.After(start) && b.StartTime.Before(end) {
			return b
		}
	}
	return nil
}

// HasConflict reports whether any existing booking overlaps [start, end).
func HasConflict(existing []*model.Booking, start, end time.Time) bool {
	return FindConflict(existing, start, end) != nil
}
