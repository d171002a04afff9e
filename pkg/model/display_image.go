package model

import "time"

// DisplayImage is a promotional image rotated on TV displays. Filename is the
// stored name under the upload directory, not the client-supplied one.
type DisplayImage struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Filename   string    `json:"filename" bson:"filename" validate:"required,max=120"`
	Caption    string    `json:"caption,omitempty" bson:"caption,omitempty" validate:"omitempty,max=255"`
	Active     bool      `json:"active" bson:"active"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}
