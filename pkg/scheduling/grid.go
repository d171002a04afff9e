package scheduling

import (
	"roombook/pkg/model"
)

// HourRange lists the integer hours from startHour through endHour inclusive,
// matching the rows a schedule dashboard renders.
func HourRange(startHour, endHour int) []int {
	if endHour < startHour {
		return []int{}
	}
	hours := make([]int, 0, endHour-startHour+1)
	for h := startHour; h <= endHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// BuildGrid produces a room-name × hour matrix of occupying department
// labels; empty string means the hour cell is free. Every room gets a full
// row over hours even when it has no bookings.
//
// A booking occupies the hours [floor(start), floor(end)), extended by one
// hour when its end carries a nonzero minute or second (a 09:00–10:30 booking
// occupies hours 9 and 10). Bookings found later in the input overwrite
// earlier marks on the same cell; overlapping legacy data therefore resolves
// last-write-wins rather than erroring.
func BuildGrid(rooms []*model.Room, bookings []*model.Booking, hours []int) map[string]map[int]string {
	grid := make(map[string]map[int]string, len(rooms))
	for _, room := range rooms {
		row := make(map[int]string, len(hours))
		for _, h := range hours {
			row[h] = ""
		}
		for _, b := range bookings {
			if b.RoomID != room.ID {
				continue
			}
			for _, h := range occupiedHours(b, hours) {
				row[h] = b.Department
			}
		}
		grid[room.Name] = row
	}
	return grid
}

// BuildDetailGrid is the detail-carrying variant of BuildGrid: cells hold the
// occupying booking itself (nil when free) so consumers can render requester
// and description, not just the department label.
func BuildDetailGrid(rooms []*model.Room, bookings []*model.Booking, hours []int) map[string]map[int]*model.Booking {
	grid := make(map[string]map[int]*model.Booking, len(rooms))
	for _, room := range rooms {
		row := make(map[int]*model.Booking, len(hours))
		for _, h := range hours {
			row[h] = nil
		}
		for _, b := range bookings {
			if b.RoomID != room.ID {
				continue
			}
			for _, h := range occupiedHours(b, hours) {
				row[h] = b
			}
		}
		grid[room.Name] = row
	}
	return grid
}

// occupiedHours lists the in-range hours a booking occupies, applying the
// end-minute rollover and clamping to one past the last hour in range.
func occupiedHours(b *model.Booking, hours []int) []int {
	if len(hours) == 0 {
		return nil
	}

	startHour := b.StartTime.Hour()
	endHourExclusive := b.EndTime.Hour()
	if b.EndTime.Minute() > 0 || b.EndTime.Second() > 0 {
		endHourExclusive++
	}

	lastHour := hours[len(hours)-1]
	if endHourExclusive > lastHour+1 {
		endHourExclusive = lastHour + 1
	}

	inRange := make(map[int]struct{}, len(hours))
	for _, h := range hours {
		inRange[h] = struct{}{}
	}

	var occupied []int
	for h := startHour; h < endHourExclusive; h++ {
		if _, ok := inRange[h]; ok {
			occupied = append(occupied, h)
		}
	}
	return occupied
}
