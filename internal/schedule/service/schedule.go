package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	roomserrors "roombook/internal/rooms/errors"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/scheduling"
)

// BookingSource is the narrow read surface the schedule views need.
type BookingSource interface {
	FindInWindow(ctx context.Context, start, end time.Time) ([]*model.Booking, error)
	FindByRoomInWindow(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error)
}

type RoomSource interface {
	FindAll(ctx context.Context) ([]*model.Room, error)
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

// TimelineEntry is one rendered segment of a room's display timeline.
type TimelineEntry struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"` // "empty" or "booked"
	BookingID   string `json:"booking_id,omitempty"`
	BookedBy    string `json:"booked_by,omitempty"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`
}

type RoomTimeline struct {
	Room    *model.Room     `json:"room"`
	Entries []TimelineEntry `json:"entries"`
}

type DaySchedule struct {
	Date        string         `json:"date"`
	WindowStart string         `json:"window_start"`
	WindowEnd   string         `json:"window_end"`
	Rooms       []RoomTimeline `json:"rooms"`
}

type GridCell struct {
	Status      string `json:"status"` // "empty" or "booked"
	BookedBy    string `json:"booked_by,omitempty"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`
}

type DayGrid struct {
	Date        string                      `json:"date"`
	Hours       []int                       `json:"hours"`
	CurrentHour int                         `json:"current_hour"` // -1 unless the grid is for today
	Rows        map[string]map[int]GridCell `json:"rows"`         // keyed by room name, then hour
}

type Availability struct {
	Date      string                `json:"date"`
	RoomID    string                `json:"room_id"`
	FreeSlots []string              `json:"free_slots"`
	Booked    []scheduling.Interval `json:"booked"`
}

type ScheduleService interface {
	DaySchedule(ctx context.Context, day time.Time) (*DaySchedule, error)
	RoomTimelineForDay(ctx context.Context, roomID string, day time.Time) (*RoomTimeline, error)
	Grid(ctx context.Context, day time.Time) (*DayGrid, error)
	AvailableTimes(ctx context.Context, roomID string, day time.Time) (*Availability, error)
	Export(ctx context.Context, day time.Time) (*excelize.File, error)
}

type scheduleService struct {
	bookings BookingSource
	rooms    RoomSource
	cfg      *config.Config
	now      func() time.Time
}

func NewScheduleService(bookings BookingSource, rooms RoomSource, cfg *config.Config) ScheduleService {
	return &scheduleService{
		bookings: bookings,
		rooms:    rooms,
		cfg:      cfg,
		now:      time.Now,
	}
}

// displayWindow is the half-open [start, end) display range of day in the
// configured location.
func (s *scheduleService) displayWindow(day time.Time) (time.Time, time.Time) {
	y, m, d := day.In(s.cfg.Location).Date()
	start := time.Date(y, m, d, s.cfg.DisplayStartHour, 0, 0, 0, s.cfg.Location)
	end := time.Date(y, m, d, s.cfg.DisplayEndHour, 0, 0, 0, s.cfg.Location)
	return start, end
}

func (s *scheduleService) DaySchedule(ctx context.Context, day time.Time) (*DaySchedule, error) {
	windowStart, windowEnd := s.displayWindow(day)

	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms for schedule", "error", err)
		return nil, apperrors.Internal("Failed to load rooms", err)
	}

	bookings, err := s.bookings.FindInWindow(ctx, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for schedule", "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	byRoom := make(map[string][]*model.Booking)
	for _, b := range bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	out := &DaySchedule{
		Date:        windowStart.Format(scheduling.DayKeyFormat),
		WindowStart: windowStart.Format(scheduling.ClockFormat),
		WindowEnd:   windowEnd.Format(scheduling.ClockFormat),
		Rooms:       make([]RoomTimeline, 0, len(rooms)),
	}

	for _, room := range rooms {
		segments := scheduling.BuildTimeline(byRoom[room.ID], windowStart, windowEnd)
		out.Rooms = append(out.Rooms, RoomTimeline{
			Room:    room,
			Entries: renderSegments(segments),
		})
	}

	return out, nil
}

// RoomTimelineForDay builds the display-window timeline for one room. An
// unknown room is not an error: it renders as a single free segment, the same
// as a room with no bookings.
func (s *scheduleService) RoomTimelineForDay(ctx context.Context, roomID string, day time.Time) (*RoomTimeline, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.lookupRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	windowStart, windowEnd := s.displayWindow(day)
	bookings, err := s.bookings.FindByRoomInWindow(ctx, roomID, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load room bookings", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	segments := scheduling.BuildTimeline(bookings, windowStart, windowEnd)
	return &RoomTimeline{
		Room:    room,
		Entries: renderSegments(segments),
	}, nil
}

// lookupRoom resolves a room for read-side views. A missing room comes back
// as (nil, nil) so callers can render it as free rather than failing.
func (s *scheduleService) lookupRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to load room", err)
	}
	return room, nil
}

func (s *scheduleService) Grid(ctx context.Context, day time.Time) (*DayGrid, error) {
	windowStart, windowEnd := s.displayWindow(day)
	hours := scheduling.HourRange(s.cfg.DisplayStartHour, s.cfg.DisplayEndHour-1)

	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load rooms for grid", "error", err)
		return nil, apperrors.Internal("Failed to load rooms", err)
	}

	bookings, err := s.bookings.FindInWindow(ctx, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for grid", "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	detail := scheduling.BuildDetailGrid(rooms, bookings, hours)

	rows := make(map[string]map[int]GridCell, len(detail))
	for roomName, row := range detail {
		cells := make(map[int]GridCell, len(row))
		for hour, booking := range row {
			if booking == nil {
				cells[hour] = GridCell{Status: "empty"}
				continue
			}
			cells[hour] = GridCell{
				Status:      "booked",
				BookedBy:    booking.BookedBy,
				Department:  booking.Department,
				Description: booking.Description,
			}
		}
		rows[roomName] = cells
	}

	return &DayGrid{
		Date:        windowStart.Format(scheduling.DayKeyFormat),
		Hours:       hours,
		CurrentHour: s.currentHour(day),
		Rows:        rows,
	}, nil
}

// currentHour is the hour to highlight, or -1 when day is not today.
func (s *scheduleService) currentHour(day time.Time) int {
	now := s.now().In(s.cfg.Location)
	if !scheduling.SameDay(now, day.In(s.cfg.Location)) {
		return -1
	}
	return now.Hour()
}

// AvailableTimes lists free slot starts and booked intervals for one room and
// day. No room-existence check: an unknown room simply has no bookings, so
// every slot in the search window comes back free.
func (s *scheduleService) AvailableTimes(ctx context.Context, roomID string, day time.Time) (*Availability, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	y, m, d := day.In(s.cfg.Location).Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.bookings.FindByRoomInWindow(ctx, roomID, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	free, booked := scheduling.AvailableSlots(
		bookings,
		dayStart,
		s.cfg.SlotGranularity,
		s.cfg.SlotStartHour,
		s.cfg.SlotEndHour,
		s.now(),
	)

	return &Availability{
		Date:      dayStart.Format(scheduling.DayKeyFormat),
		RoomID:    roomID,
		FreeSlots: scheduling.FormatSlots(free),
		Booked:    booked,
	}, nil
}

// Export renders the hourly grid as a spreadsheet, one row per room, one
// column per display hour.
func (s *scheduleService) Export(ctx context.Context, day time.Time) (*excelize.File, error) {
	grid, err := s.Grid(ctx, day)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Schedule " + grid.Date
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := f.SetCellValue(sheet, "A1", "Room"); err != nil {
		return nil, apperrors.Internal("Failed to build export", err)
	}
	for i, hour := range grid.Hours {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return nil, apperrors.Internal("Failed to build export", err)
		}
		label := fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1)
		if err := f.SetCellValue(sheet, col+"1", label); err != nil {
			return nil, apperrors.Internal("Failed to build export", err)
		}
	}

	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load rooms", err)
	}

	for rowIdx, room := range rooms {
		rowNum := rowIdx + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), room.Name); err != nil {
			return nil, apperrors.Internal("Failed to build export", err)
		}

		cells := grid.Rows[room.Name]
		for i, hour := range grid.Hours {
			col, err := excelize.ColumnNumberToName(i + 2)
			if err != nil {
				return nil, apperrors.Internal("Failed to build export", err)
			}
			value := ""
			if cell, ok := cells[hour]; ok && cell.Status == "booked" {
				value = fmt.Sprintf("%s (%s)", cell.BookedBy, cell.Department)
			}
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowNum), value); err != nil {
				return nil, apperrors.Internal("Failed to build export", err)
			}
		}
	}

	return f, nil
}

func renderSegments(segments []scheduling.Segment) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(segments))
	for _, seg := range segments {
		entry := TimelineEntry{
			Start:  seg.Start.Format(scheduling.ClockFormat),
			End:    seg.End.Format(scheduling.ClockFormat),
			Status: "empty",
		}
		if !seg.Free() {
			entry.Status = "booked"
			entry.BookingID = seg.Booking.ID
			entry.BookedBy = seg.Booking.BookedBy
			entry.Department = seg.Booking.Department
			entry.Description = seg.Booking.Description
		}
		entries = append(entries, entry)
	}
	return entries
}
