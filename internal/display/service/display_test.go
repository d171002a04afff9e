package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	scheduleservice "roombook/internal/schedule/service"
	"roombook/pkg/config"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type mockScheduleService struct {
	dayScheduleFunc  func(ctx context.Context, day time.Time) (*scheduleservice.DaySchedule, error)
	roomTimelineFunc func(ctx context.Context, roomID string, day time.Time) (*scheduleservice.RoomTimeline, error)
}

func (m *mockScheduleService) DaySchedule(ctx context.Context, day time.Time) (*scheduleservice.DaySchedule, error) {
	return m.dayScheduleFunc(ctx, day)
}

func (m *mockScheduleService) RoomTimelineForDay(ctx context.Context, roomID string, day time.Time) (*scheduleservice.RoomTimeline, error) {
	return m.roomTimelineFunc(ctx, roomID, day)
}

func (m *mockScheduleService) Grid(ctx context.Context, day time.Time) (*scheduleservice.DayGrid, error) {
	return nil, errors.New("not implemented")
}

func (m *mockScheduleService) AvailableTimes(ctx context.Context, roomID string, day time.Time) (*scheduleservice.Availability, error) {
	return nil, errors.New("not implemented")
}

func (m *mockScheduleService) Export(ctx context.Context, day time.Time) (*excelize.File, error) {
	return nil, errors.New("not implemented")
}

type mockImageService struct {
	getActiveFunc func(ctx context.Context) ([]*model.DisplayImage, error)
}

func (m *mockImageService) Upload(ctx context.Context, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockImageService) Replace(ctx context.Context, id, originalFilename, caption string, r io.Reader) (*model.DisplayImage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockImageService) GetAll(ctx context.Context) ([]*model.DisplayImage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockImageService) GetActive(ctx context.Context) ([]*model.DisplayImage, error) {
	return m.getActiveFunc(ctx)
}

func (m *mockImageService) SetActive(ctx context.Context, id string, active bool) error {
	return errors.New("not implemented")
}

func (m *mockImageService) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type mockPublisher struct {
	events   []string
	payloads []any
}

func (m *mockPublisher) Publish(eventType string, payload any) {
	m.events = append(m.events, eventType)
	m.payloads = append(m.payloads, payload)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return &config.Config{
		Location:       loc,
		RequestTimeout: 5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func TestHandleBookingChange_PublishesRoomTimeline(t *testing.T) {
	cfg := testConfig(t)
	timeline := &scheduleservice.RoomTimeline{
		Room: &model.Room{ID: "507f1f77bcf86cd799439022", Name: "Mawar"},
	}

	var requestedRoom string
	var requestedDay time.Time
	schedule := &mockScheduleService{
		roomTimelineFunc: func(ctx context.Context, roomID string, day time.Time) (*scheduleservice.RoomTimeline, error) {
			requestedRoom = roomID
			requestedDay = day
			return timeline, nil
		},
	}
	publisher := &mockPublisher{}
	svc := NewDisplayService(schedule, &mockImageService{}, publisher, cfg)

	booking := &model.Booking{
		ID:        "507f1f77bcf86cd799439011",
		RoomID:    "507f1f77bcf86cd799439022",
		StartTime: time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC), // 09:00 in Jakarta
		EndTime:   time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC),
	}
	svc.HandleBookingChange(booking, "booking.created")

	if requestedRoom != booking.RoomID {
		t.Errorf("expected timeline for room %s, got %s", booking.RoomID, requestedRoom)
	}
	if got := requestedDay.In(cfg.Location).Format("2006-01-02"); got != "2025-03-10" {
		t.Errorf("expected timeline for booking's local day, got %s", got)
	}

	if len(publisher.events) != 1 || publisher.events[0] != "booking.created" {
		t.Fatalf("expected one booking.created event, got %v", publisher.events)
	}
	update, ok := publisher.payloads[0].(*ScheduleUpdate)
	if !ok {
		t.Fatalf("unexpected payload type %T", publisher.payloads[0])
	}
	if update.RoomID != booking.RoomID || update.Timeline != timeline {
		t.Error("published update does not carry the affected room's timeline")
	}
}

func TestHandleBookingChange_TimelineFailureDropsEvent(t *testing.T) {
	cfg := testConfig(t)
	schedule := &mockScheduleService{
		roomTimelineFunc: func(ctx context.Context, roomID string, day time.Time) (*scheduleservice.RoomTimeline, error) {
			return nil, errors.New("database down")
		},
	}
	publisher := &mockPublisher{}
	svc := NewDisplayService(schedule, &mockImageService{}, publisher, cfg)

	svc.HandleBookingChange(&model.Booking{
		RoomID:    "507f1f77bcf86cd799439022",
		StartTime: time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC),
	}, "booking.cancelled")

	if len(publisher.events) != 0 {
		t.Errorf("expected no events after timeline failure, got %v", publisher.events)
	}
}

func TestSnapshot_CombinesScheduleAndImages(t *testing.T) {
	cfg := testConfig(t)
	daySchedule := &scheduleservice.DaySchedule{Date: "2025-03-10"}
	images := []*model.DisplayImage{{ID: "507f1f77bcf86cd799439066", Filename: "promo.png"}}

	schedule := &mockScheduleService{
		dayScheduleFunc: func(ctx context.Context, day time.Time) (*scheduleservice.DaySchedule, error) {
			return daySchedule, nil
		},
	}
	imageSvc := &mockImageService{
		getActiveFunc: func(ctx context.Context) ([]*model.DisplayImage, error) {
			return images, nil
		},
	}
	svc := NewDisplayService(schedule, imageSvc, &mockPublisher{}, cfg)

	snapshot, err := svc.Snapshot(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, cfg.Location))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Schedule != daySchedule {
		t.Error("snapshot missing day schedule")
	}
	if len(snapshot.Images) != 1 || snapshot.Images[0].Filename != "promo.png" {
		t.Error("snapshot missing active images")
	}
}
