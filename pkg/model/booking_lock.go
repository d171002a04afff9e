package model

import "time"

// BookingLock is an advisory lock keyed on room and slot coordinates. It keeps
// two concurrent creation requests for the same slot from both passing the
// overlap check before either insert lands.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
