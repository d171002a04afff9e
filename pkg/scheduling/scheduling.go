// Package scheduling holds the pure booking-derivation logic: interval
// conflict detection, slot availability, hourly occupancy grids and gapless
// display timelines. Every function is a deterministic transformation of an
// immutable booking snapshot; nothing here touches storage or parses text.
package scheduling

import "time"

const (
	// DayKeyFormat is the canonical day key used when output is externalized.
	DayKeyFormat = "2006-01-02"
	// ClockFormat is the canonical minute-precision time-of-day form.
	ClockFormat = "15:04"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// clockBefore reports whether a's time-of-day is strictly before b's,
// ignoring the date portion entirely.
func clockBefore(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	if ah != bh {
		return ah < bh
	}
	if am != bm {
		return am < bm
	}
	return as < bs
}

// dayOf truncates t to midnight in its own location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
