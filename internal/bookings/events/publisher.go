package events

import (
	"context"

	"roombook/pkg/kafka"
	"roombook/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	source        = "roombook"
)

// Publisher emits booking lifecycle events for downstream consumers
// (reporting, notification fan-out).
type Publisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(booking).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	return p.producer.Publish(ctx, msg)
}

type noopPublisher struct{}

// NewNoopPublisher is used when event publishing is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishBookingEvent(context.Context, string, *model.Booking) error {
	return nil
}
