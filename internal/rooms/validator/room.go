package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type RoomValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	return &RoomValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	return v.translate(v.validate.Struct(room))
}

func (v *RoomValidator) ValidateUpdate(update *model.RoomUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *RoomValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	first := validationErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", first.Field())
	case "min":
		return fmt.Errorf("%s must be at least %s characters", first.Field(), first.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", first.Field(), first.Param())
	case "mongodb":
		return fmt.Errorf("%s must be a valid MongoDB ObjectID", first.Field())
	}
	return first
}
