package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"roombook/pkg/scheduling"
)

// Requester identifies who is performing an operation. Identity is
// established upstream; the service only enforces ownership rules.
type Requester struct {
	Username string
	Role     string
}

func (r Requester) IsAdmin() bool {
	return r.Role == model.RoleAdmin
}

// ChangeListener is invoked after a booking is created or cancelled, outside
// the transaction. Listeners must not block.
type ChangeListener func(booking *model.Booking, eventType string)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByRequester(ctx context.Context, requester Requester, includeHistory bool, day time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string, requester Requester) error
	BulkCancel(ctx context.Context, ids []string, requester Requester) (int64, error)
	OnChange(listener ChangeListener)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config

	mu        sync.RWMutex
	listeners []ChangeListener
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// OnChange registers a listener notified after successful mutations.
func (s *bookingService) OnChange(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	// Advisory lock keeps two concurrent requests for the same slot from
	// both passing the overlap check.
	lockID, err := s.acquireSlotLock(ctx, booking.RoomID, booking.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"username", booking.Username,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.notify(ctx, booking, events.TypeBookingCreated)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// ListByRequester returns the requester's own bookings, by default only
// those that have not yet ended. A nonzero day narrows the list to that
// calendar day. Admins see every booking.
func (s *bookingService) ListByRequester(ctx context.Context, requester Requester, includeHistory bool, day time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if requester.IsAdmin() {
		return s.GetAll(ctx, limit, offset)
	}

	username := sanitizer.NormalizeUsername(requester.Username)
	if username == "" {
		return nil, 0, apperrors.InvalidInput("Username cannot be empty")
	}

	var endingAfter time.Time
	if !includeHistory {
		endingAfter = time.Now()
	}

	bookings, err := s.repo.FindByUsername(ctx, username, endingAfter, day, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by username", "username", username, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	count, err := s.repo.CountByUsername(ctx, username, endingAfter, day)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings by username", "username", username, "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, requester Requester) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translateRepoError(err, id)
	}

	if !s.mayCancel(booking, requester) {
		return apperrors.Forbidden("Only the booking owner or an admin can cancel a booking")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"room_id", booking.RoomID,
		"cancelled_by", requester.Username,
	)
	s.notify(ctx, booking, events.TypeBookingCancelled)
	return nil
}

func (s *bookingService) BulkCancel(ctx context.Context, ids []string, requester Requester) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.InvalidInput("At least one booking ID is required")
	}
	if !requester.IsAdmin() {
		return 0, apperrors.Forbidden("Only admins can bulk-cancel bookings")
	}

	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return 0, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to bulk-cancel bookings", "requested", len(ids), "error", err)
		return 0, apperrors.Internal("Failed to cancel bookings", err)
	}

	s.cfg.Log.Info("Bookings bulk-cancelled",
		"requested", len(ids),
		"deleted", deleted,
		"cancelled_by", requester.Username,
	)
	return deleted, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.BookedBy = sanitizer.NormalizeName(b.BookedBy)
	b.Username = sanitizer.NormalizeUsername(b.Username)
	b.Department = sanitizer.NormalizeName(b.Department)
	b.Description = sanitizer.NormalizeDescription(b.Description)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindByRoomInWindow(ctx, booking.RoomID, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if conflict := scheduling.FindConflict(existing, booking.StartTime, booking.EndTime); conflict != nil {
		return apperrors.ConflictWithBooking(fmt.Sprintf(
			"Booking time overlaps with existing booking (%s - %s)",
			conflict.StartTime.Format(time.RFC3339),
			conflict.EndTime.Format(time.RFC3339),
		), conflict.ID)
	}
	return nil
}

func (s *bookingService) mayCancel(booking *model.Booking, requester Requester) bool {
	if requester.IsAdmin() {
		return true
	}
	return booking.Username == sanitizer.NormalizeUsername(requester.Username)
}

func (s *bookingService) notify(ctx context.Context, booking *model.Booking, eventType string) {
	if err := s.publisher.PublishBookingEvent(ctx, eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(booking, eventType)
	}
}

// acquireSlotLock creates an advisory lock for the slot coordinates.
// Returns the lock ID if successful, or a conflict error if the lock exists.
func (s *bookingService) acquireSlotLock(ctx context.Context, roomID string, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", roomID, startTime.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func translateRepoError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}
