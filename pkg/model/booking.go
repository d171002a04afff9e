package model

import (
	"time"
)

// Booking reserves a room for the half-open interval [StartTime, EndTime).
// A booking ending at 10:00 does not conflict with one starting at 10:00.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID      string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	BookedBy    string    `json:"booked_by" bson:"booked_by" validate:"required,min=2,max=100"`
	Username    string    `json:"username" bson:"username" validate:"required,min=2,max=100"`
	Role        string    `json:"role,omitempty" bson:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Department  string    `json:"department" bson:"department" validate:"required,min=2,max=100"`
	StartTime   time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
