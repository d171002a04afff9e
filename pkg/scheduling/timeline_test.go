package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook/pkg/model"
)

// assertGapless checks the output invariants: segments cover exactly
// [windowStart, windowEnd) with no gaps and no overlaps.
func assertGapless(t *testing.T, segments []Segment, windowStart, windowEnd time.Time) {
	t.Helper()
	require.NotEmpty(t, segments)
	assert.True(t, segments[0].Start.Equal(windowStart), "first segment starts at window start")
	assert.True(t, segments[len(segments)-1].End.Equal(windowEnd), "last segment ends at window end")
	for i := range segments {
		assert.True(t, segments[i].End.After(segments[i].Start), "segment %d is non-empty", i)
		if i > 0 {
			assert.True(t, segments[i].Start.Equal(segments[i-1].End), "segment %d starts where %d ended", i, i-1)
		}
	}
}

func TestBuildTimelineEmptyInput(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)

	segments := BuildTimeline(nil, windowStart, windowEnd)

	require.Len(t, segments, 1)
	assert.True(t, segments[0].Free())
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineSingleBooking(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)
	b := booking("b1", day(9, 0), day(10, 30))

	segments := BuildTimeline([]*model.Booking{b}, windowStart, windowEnd)

	require.Len(t, segments, 3)
	assert.True(t, segments[0].Free())
	assert.Same(t, b, segments[1].Booking)
	assert.True(t, segments[2].Free())
	assert.True(t, segments[1].Start.Equal(day(9, 0)))
	assert.True(t, segments[1].End.Equal(day(10, 30)))
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineBackToBackBookings(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)
	bookings := []*model.Booking{
		booking("b1", day(9, 0), day(10, 0)),
		booking("b2", day(10, 0), day(11, 0)),
	}

	segments := BuildTimeline(bookings, windowStart, windowEnd)

	require.Len(t, segments, 4)
	assert.Equal(t, "b1", segments[1].Booking.ID)
	assert.Equal(t, "b2", segments[2].Booking.ID)
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineFullyCoveringBooking(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)
	bookings := []*model.Booking{
		booking("b1", day(7, 0), day(17, 0)),
	}

	segments := BuildTimeline(bookings, windowStart, windowEnd)

	require.Len(t, segments, 1)
	assert.False(t, segments[0].Free())
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineClampsToWindow(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)
	bookings := []*model.Booking{
		booking("early", day(6, 0), day(8, 0)),
		booking("late", day(16, 30), day(18, 0)),
	}

	segments := BuildTimeline(bookings, windowStart, windowEnd)

	require.Len(t, segments, 3)
	assert.Equal(t, "early", segments[0].Booking.ID)
	assert.True(t, segments[0].Start.Equal(windowStart))
	assert.Equal(t, "late", segments[2].Booking.ID)
	assert.True(t, segments[2].End.Equal(windowEnd))
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineToleratesOverlap(t *testing.T) {
	// Overlapping legacy data must not break contiguity; the cursor only
	// moves forward.
	windowStart, windowEnd := day(7, 0), day(17, 0)
	bookings := []*model.Booking{
		booking("b1", day(9, 0), day(12, 0)),
		booking("b2", day(10, 0), day(11, 0)), // swallowed by b1
		booking("b3", day(11, 30), day(13, 0)),
	}

	segments := BuildTimeline(bookings, windowStart, windowEnd)

	assertGapless(t, segments, windowStart, windowEnd)
	var ids []string
	for _, s := range segments {
		if !s.Free() {
			ids = append(ids, s.Booking.ID)
		}
	}
	assert.Equal(t, []string{"b1", "b3"}, ids)
}

func TestBuildTimelineOutsideWindowBookingsIgnored(t *testing.T) {
	windowStart, windowEnd := day(7, 0), day(17, 0)
	bookings := []*model.Booking{
		booking("before", day(5, 0), day(6, 0)),
		booking("after", day(18, 0), day(19, 0)),
	}

	segments := BuildTimeline(bookings, windowStart, windowEnd)

	require.Len(t, segments, 1)
	assert.True(t, segments[0].Free())
	assertGapless(t, segments, windowStart, windowEnd)
}

func TestBuildTimelineEmptyWindow(t *testing.T) {
	segments := BuildTimeline(nil, day(17, 0), day(7, 0))
	assert.Empty(t, segments)
}
