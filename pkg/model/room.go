package model

// Room is a physical meeting room shown on dashboards and lobby displays.
type Room struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Floor string `json:"floor,omitempty" bson:"floor,omitempty" validate:"omitempty,max=10"`
}

type RoomUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Floor string `json:"floor,omitempty" validate:"omitempty,max=10"`
}
