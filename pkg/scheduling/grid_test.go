package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook/pkg/model"
)

func rooms() []*model.Room {
	return []*model.Room{
		{ID: "room-a", Name: "Aster", Floor: "2"},
		{ID: "room-b", Name: "Begonia", Floor: "3"},
	}
}

func roomBooking(roomID, dept string, start, end time.Time) *model.Booking {
	return &model.Booking{
		ID:         roomID + "-" + dept,
		RoomID:     roomID,
		BookedBy:   "Dewi",
		Username:   "dewi",
		Department: dept,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestHourRange(t *testing.T) {
	assert.Equal(t, []int{7, 8, 9, 10}, HourRange(7, 10))
	assert.Equal(t, []int{5}, HourRange(5, 5))
	assert.Empty(t, HourRange(10, 7))
}

func TestBuildGridEndMinuteRollover(t *testing.T) {
	hours := HourRange(7, 17)
	bookings := []*model.Booking{
		roomBooking("room-a", "Finance", day(9, 0), day(10, 30)),
	}

	grid := BuildGrid(rooms(), bookings, hours)

	row := grid["Aster"]
	require.NotNil(t, row)
	assert.Equal(t, "", row[8])
	assert.Equal(t, "Finance", row[9])
	assert.Equal(t, "Finance", row[10], "a 10:30 end occupies the 10:00 cell")
	assert.Equal(t, "", row[11])
}

func TestBuildGridAlignedEndExcludesLastHour(t *testing.T) {
	hours := HourRange(7, 17)
	bookings := []*model.Booking{
		roomBooking("room-a", "Finance", day(9, 0), day(11, 0)),
	}

	grid := BuildGrid(rooms(), bookings, hours)

	row := grid["Aster"]
	assert.Equal(t, "Finance", row[9])
	assert.Equal(t, "Finance", row[10])
	assert.Equal(t, "", row[11])
}

func TestBuildGridRoomsWithoutBookingsGetFullRows(t *testing.T) {
	hours := HourRange(7, 9)
	grid := BuildGrid(rooms(), nil, hours)

	require.Len(t, grid, 2)
	for _, name := range []string{"Aster", "Begonia"} {
		row := grid[name]
		require.Len(t, row, 3)
		for _, h := range hours {
			assert.Equal(t, "", row[h])
		}
	}
}

func TestBuildGridClampsToRange(t *testing.T) {
	hours := HourRange(7, 10)
	bookings := []*model.Booking{
		roomBooking("room-a", "Finance", day(9, 0), day(15, 45)),
	}

	grid := BuildGrid(rooms(), bookings, hours)

	row := grid["Aster"]
	assert.Equal(t, "Finance", row[9])
	assert.Equal(t, "Finance", row[10])
	_, beyond := row[11]
	assert.False(t, beyond, "no cells outside the hour range")
}

func TestBuildGridLastWriteWins(t *testing.T) {
	// Overlapping bookings can exist as legacy data; the grid resolves the
	// shared cell to whichever booking the input lists later.
	hours := HourRange(7, 17)
	bookings := []*model.Booking{
		roomBooking("room-a", "Finance", day(9, 0), day(11, 0)),
		roomBooking("room-a", "Marketing", day(10, 0), day(12, 0)),
	}

	grid := BuildGrid(rooms(), bookings, hours)

	row := grid["Aster"]
	assert.Equal(t, "Finance", row[9])
	assert.Equal(t, "Marketing", row[10])
	assert.Equal(t, "Marketing", row[11])
}

func TestBuildDetailGridCarriesBookings(t *testing.T) {
	hours := HourRange(7, 17)
	b := roomBooking("room-b", "Ops", day(13, 0), day(14, 0))
	grid := BuildDetailGrid(rooms(), []*model.Booking{b}, hours)

	require.NotNil(t, grid["Begonia"])
	assert.Same(t, b, grid["Begonia"][13])
	assert.Nil(t, grid["Begonia"][14])
	assert.Nil(t, grid["Aster"][13])
}
