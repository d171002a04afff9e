package common

import (
	"time"

	"roombook/pkg/model"
)

type BookingBuilder struct {
	b model.Booking
}

func NewBookingBuilder(roomID string) *BookingBuilder {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &BookingBuilder{
		b: model.Booking{
			RoomID:     roomID,
			BookedBy:   "Rina Wulandari",
			Username:   "rina",
			Department: "Finance",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
		},
	}
}

func (b *BookingBuilder) WithTimes(start, end time.Time) *BookingBuilder {
	b.b.StartTime = start
	b.b.EndTime = end
	return b
}

func (b *BookingBuilder) WithUsername(username string) *BookingBuilder {
	b.b.Username = username
	return b
}

func (b *BookingBuilder) WithBookedBy(name string) *BookingBuilder {
	b.b.BookedBy = name
	return b
}

func (b *BookingBuilder) WithDepartment(department string) *BookingBuilder {
	b.b.Department = department
	return b
}

func (b *BookingBuilder) WithDescription(description string) *BookingBuilder {
	b.b.Description = description
	return b
}

func (b *BookingBuilder) Build() model.Booking {
	return b.b
}

type RoomBuilder struct {
	r model.Room
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		r: model.Room{
			Name:  "Mawar",
			Floor: "3",
		},
	}
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.r.Name = name
	return b
}

func (b *RoomBuilder) WithFloor(floor string) *RoomBuilder {
	b.r.Floor = floor
	return b
}

func (b *RoomBuilder) Build() model.Room {
	return b.r
}

func ValidRoom() model.Room {
	return NewRoomBuilder().Build()
}

func EmptyRoom() model.Room {
	return model.Room{}
}

// RequesterHeaders is the identity a fronting gateway would attach.
func RequesterHeaders(username, role string) map[string]string {
	return map[string]string{
		"X-Username": username,
		"X-Role":     role,
	}
}
