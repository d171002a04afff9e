package scheduling

import (
	"time"

	"roombook/pkg/model"
)

// AvailableSlots computes the bookable slot starts for one room on one day,
// plus the booked intervals, at a fixed granularity in minutes. The window is
// [windowStartHour:00, windowEndHour:00) on day; a non-positive window yields
// empty output rather than an error.
//
// A booking occupies every granularity-aligned mark stepped from its start
// (inclusive) to its end (exclusive); a slot whose HH:MM start matches any
// such mark is booked. Free slots additionally exclude days strictly in the
// past and, on the current day, times-of-day strictly before now.
//
// Free slots come back ascending; booked intervals keep the input booking
// order.
func AvailableSlots(bookings []*model.Booking, day time.Time, granularityMinutes, windowStartHour, windowEndHour int, now time.Time) ([]time.Time, []Interval) {
	free := []time.Time{}
	booked := make([]Interval, 0, len(bookings))

	step := time.Duration(granularityMinutes) * time.Minute
	occupied := make(map[string]struct{})
	for _, b := range bookings {
		for t := b.StartTime; t.Before(b.EndTime); t = t.Add(step) {
			occupied[t.Format(ClockFormat)] = struct{}{}
		}
		booked = append(booked, Interval{Start: b.StartTime, End: b.EndTime})
	}

	y, m, d := day.Date()
	cursor := time.Date(y, m, d, windowStartHour, 0, 0, 0, day.Location())
	windowEnd := time.Date(y, m, d, windowEndHour, 0, 0, 0, day.Location())

	dayStart := dayOf(day)
	today := dayOf(now.In(day.Location()))
	pastDay := dayStart.Before(today)
	isToday := dayStart.Equal(today)

	for ; cursor.Before(windowEnd); cursor = cursor.Add(step) {
		if pastDay {
			continue
		}
		if isToday && clockBefore(cursor, now.In(day.Location())) {
			continue
		}
		if _, taken := occupied[cursor.Format(ClockFormat)]; taken {
			continue
		}
		free = append(free, cursor)
	}

	return free, booked
}

// FormatSlots renders slot starts in the canonical HH:MM form.
func FormatSlots(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format(ClockFormat)
	}
	return out
}
