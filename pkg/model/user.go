package model

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a bookable account managed by administrators. PasswordHash is a
// bcrypt digest and never leaves the service.
type User struct {
	ID           string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username     string `json:"username" bson:"username" validate:"required,min=2,max=64"`
	PasswordHash string `json:"-" bson:"password_hash" validate:"required"`
	Department   string `json:"department,omitempty" bson:"department,omitempty" validate:"omitempty,max=100"`
	PICName      string `json:"pic_name,omitempty" bson:"pic_name,omitempty" validate:"omitempty,max=100"`
	Role         string `json:"role" bson:"role" validate:"required,oneof=admin user"`
}

type UserUpdate struct {
	Department string `json:"department,omitempty" validate:"omitempty,max=100"`
	PICName    string `json:"pic_name,omitempty" validate:"omitempty,max=100"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}
