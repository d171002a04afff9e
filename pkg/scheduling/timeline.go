package scheduling

import (
	"time"

	"roombook/pkg/model"
)

// Segment is one contiguous slice of a display window: either a booking or
// free time. Booking is nil for free segments.
type Segment struct {
	Booking *model.Booking
	Start   time.Time
	End     time.Time
}

// Free reports whether the segment carries no booking.
func (s Segment) Free() bool {
	return s.Booking == nil
}

// BuildTimeline flattens one room's bookings, sorted by start time, into a
// gapless sequence of alternating booked and free segments covering exactly
// [windowStart, windowEnd). The output is always contiguous and
// window-bounded: the first segment starts at windowStart, the last ends at
// windowEnd, and each segment starts where the previous one ended. Bookings
// reaching past either window edge are clamped to it.
//
// No conflict validation happens here. Overlapping or out-of-order input is
// tolerated: the cursor only ever moves forward, so a booking swallowed by an
// earlier one simply contributes nothing.
func BuildTimeline(bookings []*model.Booking, windowStart, windowEnd time.Time) []Segment {
	segments := []Segment{}
	if !windowEnd.After(windowStart) {
		return segments
	}

	cursor := windowStart
	for _, b := range bookings {
		if !b.EndTime.After(cursor) || !b.StartTime.Before(windowEnd) {
			continue
		}

		start := b.StartTime
		if start.Before(cursor) {
			start = cursor
		}
		end := b.EndTime
		if end.After(windowEnd) {
			end = windowEnd
		}

		if start.After(cursor) {
			segments = append(segments, Segment{Start: cursor, End: start})
		}
		segments = append(segments, Segment{Booking: b, Start: start, End: end})

		if end.After(cursor) {
			cursor = end
		}
	}

	if cursor.Before(windowEnd) {
		segments = append(segments, Segment{Start: cursor, End: windowEnd})
	}

	return segments
}
