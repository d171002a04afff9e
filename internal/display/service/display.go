package service

import (
	"context"
	"time"

	imagesservice "roombook/internal/images/service"
	scheduleservice "roombook/internal/schedule/service"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

// Snapshot is everything a TV display needs to render: the full day
// schedule for every room plus the active carousel images.
type Snapshot struct {
	Schedule *scheduleservice.DaySchedule `json:"schedule"`
	Images   []*model.DisplayImage        `json:"images"`
}

// ScheduleUpdate is pushed over the event stream when a booking changes.
type ScheduleUpdate struct {
	Event    string                        `json:"event"`
	RoomID   string                        `json:"room_id"`
	Timeline *scheduleservice.RoomTimeline `json:"timeline"`
}

// Publisher broadcasts display events to connected clients.
type Publisher interface {
	Publish(eventType string, payload any)
}

type DisplayService interface {
	Snapshot(ctx context.Context, day time.Time) (*Snapshot, error)
	HandleBookingChange(booking *model.Booking, eventType string)
}

type displayService struct {
	schedule  scheduleservice.ScheduleService
	images    imagesservice.ImageService
	publisher Publisher
	cfg       *config.Config
}

func NewDisplayService(
	schedule scheduleservice.ScheduleService,
	images imagesservice.ImageService,
	publisher Publisher,
	cfg *config.Config,
) DisplayService {
	return &displayService{
		schedule:  schedule,
		images:    images,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *displayService) Snapshot(ctx context.Context, day time.Time) (*Snapshot, error) {
	schedule, err := s.schedule.DaySchedule(ctx, day)
	if err != nil {
		return nil, err
	}

	images, err := s.images.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Schedule: schedule,
		Images:   images,
	}, nil
}

// HandleBookingChange re-renders the affected room's timeline for the
// booking's day and broadcasts it. It is registered as a booking change
// listener and runs outside any request, so it carries its own deadline.
func (s *displayService) HandleBookingChange(booking *model.Booking, eventType string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	day := booking.StartTime.In(s.cfg.Location)
	timeline, err := s.schedule.RoomTimelineForDay(ctx, booking.RoomID, day)
	if err != nil {
		s.cfg.Log.Error("Failed to build timeline for display update",
			"room_id", booking.RoomID, "event_type", eventType, "error", err)
		return
	}

	s.publisher.Publish(eventType, &ScheduleUpdate{
		Event:    eventType,
		RoomID:   booking.RoomID,
		Timeline: timeline,
	})

	s.cfg.Log.Debug("Display update published",
		"room_id", booking.RoomID, "event_type", eventType)
}
