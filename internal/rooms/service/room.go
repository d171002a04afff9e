package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	bookingsrepo "roombook/internal/bookings/repository"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetAll(ctx context.Context) ([]*model.Room, error)
	Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo        repository.RoomRepository
	bookingRepo bookingsrepo.BookingRepository
	validator   *validator.RoomValidator
	cfg         *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookingRepo bookingsrepo.BookingRepository,
	validator *validator.RoomValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:        repo,
		bookingRepo: bookingRepo,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	room.Name = sanitizer.NormalizeName(room.Name)
	room.Floor = sanitizer.TrimAndNormalize(room.Floor)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateName) {
			return apperrors.Conflict("A room with this name already exists")
		}
		s.cfg.Log.Error("Failed to create room", "name", room.Name, "error", err)
		return apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully", "id", room.ID, "name", room.Name)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}
	return room, nil
}

func (s *roomService) GetAll(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) Update(ctx context.Context, id string, updates *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Room update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	if updates.Name != "" {
		existing.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Floor != "" {
		existing.Floor = sanitizer.TrimAndNormalize(updates.Floor)
	}

	if err := s.repo.Update(ctx, id, existing); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict("A room with this name already exists")
		}
		s.cfg.Log.Error("Failed to update room", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated successfully", "id", id)
	return existing, nil
}

// Delete removes a room and all of its bookings in one transaction so the
// schedule never renders bookings for a room that no longer exists.
func (s *roomService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	var removedBookings int64
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return translateRepoError(err, id)
		}

		deleted, err := s.bookingRepo.DeleteByRoom(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete room bookings", err)
		}
		removedBookings = deleted
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Room deleted successfully",
		"id", id,
		"removed_bookings", removedBookings,
	)
	return nil
}

func translateRepoError(err error, id string) error {
	if errors.Is(err, roomserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Room", id)
	}
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid room ID format")
	}
	return apperrors.Internal("Failed to retrieve room", err)
}
