package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"roombook/pkg/model"
)

func day(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func booking(id string, start, end time.Time) *model.Booking {
	return &model.Booking{
		ID:         id,
		RoomID:     "room-a",
		BookedBy:   "Rina",
		Username:   "rina",
		Department: "Finance",
		StartTime:  start,
		EndTime:    end,
	}
}

func TestFindConflict(t *testing.T) {
	existing := []*model.Booking{
		booking("b1", day(9, 0), day(10, 0)),
		booking("b2", day(13, 0), day(14, 30)),
	}

	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		wantID string
	}{
		{"touching end of existing is free", day(10, 0), day(11, 0), ""},
		{"touching start of existing is free", day(8, 0), day(9, 0), ""},
		{"contained inside existing", day(9, 30), day(9, 45), "b1"},
		{"overlapping the tail", day(9, 45), day(10, 30), "b1"},
		{"overlapping the head", day(12, 30), day(13, 15), "b2"},
		{"covering an existing booking", day(12, 0), day(15, 0), "b2"},
		{"identical interval", day(9, 0), day(10, 0), "b1"},
		{"disjoint gap between bookings", day(10, 0), day(13, 0), ""},
		{"disjoint before everything", day(7, 0), day(8, 30), ""},
		{"one minute of overlap", day(9, 59), day(10, 30), "b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(existing, tt.start, tt.end)
			if tt.wantID == "" {
				assert.Nil(t, got)
				assert.False(t, HasConflict(existing, tt.start, tt.end))
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, tt.wantID, got.ID)
				assert.True(t, HasConflict(existing, tt.start, tt.end))
			}
		})
	}
}

func TestFindConflictEmptyRoom(t *testing.T) {
	assert.Nil(t, FindConflict(nil, day(9, 0), day(10, 0)))
	assert.Nil(t, FindConflict([]*model.Booking{}, day(9, 0), day(10, 0)))
}
