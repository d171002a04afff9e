package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/validator"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc             func(ctx context.Context, booking *model.Booking) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	findByRoomInWindowFunc func(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error)
	findByUsernameFunc     func(ctx context.Context, username string, endingAfter, day time.Time, limit int, offset int64) ([]*model.Booking, error)
	findAllCalled          bool
	deleteFunc             func(ctx context.Context, id string) error
	deleteManyFunc         func(ctx context.Context, ids []string) (int64, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	m.findAllCalled = true
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByRoomInWindow(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error) {
	if m.findByRoomInWindowFunc != nil {
		return m.findByRoomInWindowFunc(ctx, roomID, start, end)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindInWindow(ctx context.Context, start, end time.Time) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByUsername(ctx context.Context, username string, endingAfter, day time.Time, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username, endingAfter, day, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByUsername(ctx context.Context, username string, endingAfter, day time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if m.deleteManyFunc != nil {
		return m.deleteManyFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockBookingRepository) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(repo *mockBookingRepository, locks *mockLockRepository) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, locks, validator.NewBookingValidator(cfg.Log), events.NewNoopPublisher(), cfg)
}

func validBooking() *model.Booking {
	return &model.Booking{
		RoomID:     "507f1f77bcf86cd799439022",
		BookedBy:   "Rina Wati",
		Username:   "rina",
		Department: "Finance",
		StartTime:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	repo := &mockBookingRepository{}
	locks := &mockLockRepository{}
	svc := newTestService(repo, locks)

	var notified []string
	svc.OnChange(func(b *model.Booking, eventType string) {
		notified = append(notified, eventType)
	})

	booking := validBooking()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be assigned")
	}
	if len(notified) != 1 || notified[0] != events.TypeBookingCreated {
		t.Errorf("expected one %q notification, got %v", events.TypeBookingCreated, notified)
	}
	if len(locks.deleted) != 1 {
		t.Errorf("expected slot lock to be released, got %d deletions", len(locks.deleted))
	}
}

func TestCreate_ConflictCarriesCollidingID(t *testing.T) {
	existing := validBooking()
	existing.ID = "507f1f77bcf86cd799439033"

	repo := &mockBookingRepository{
		findByRoomInWindowFunc: func(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	booking := validBooking()
	booking.StartTime = existing.StartTime.Add(30 * time.Minute)
	booking.EndTime = existing.EndTime.Add(30 * time.Minute)

	err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected conflict error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if got := appErr.Details["conflicting_booking_id"]; got != existing.ID {
		t.Errorf("expected conflicting_booking_id %q, got %v", existing.ID, got)
	}
}

func TestCreate_TouchingBookingsDoNotConflict(t *testing.T) {
	existing := validBooking()
	existing.ID = "507f1f77bcf86cd799439033"

	repo := &mockBookingRepository{
		findByRoomInWindowFunc: func(ctx context.Context, roomID string, start, end time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	booking := validBooking()
	booking.StartTime = existing.EndTime
	booking.EndTime = existing.EndTime.Add(time.Hour)

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("back-to-back booking should not conflict, got: %v", err)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{})

	booking := validBooking()
	booking.EndTime = booking.StartTime // zero-length interval

	err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreate_SlotLockHeld(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000}},
			}
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks)

	err := svc.Create(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected conflict error while lock is held")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

// ────────────────────────────────────────────────
// Tests for Cancel()
// ────────────────────────────────────────────────

func TestCancel_OwnerCanCancel(t *testing.T) {
	existing := validBooking()
	existing.ID = "507f1f77bcf86cd799439044"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	err := svc.Cancel(context.Background(), existing.ID, Requester{Username: "rina", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancel_OtherUserForbidden(t *testing.T) {
	existing := validBooking()
	existing.ID = "507f1f77bcf86cd799439044"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	err := svc.Cancel(context.Background(), existing.ID, Requester{Username: "budi", Role: model.RoleUser})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected code %s, got %s", apperrors.CodeForbidden, appErr.Code)
	}
}

func TestCancel_AdminCanCancelAnyBooking(t *testing.T) {
	existing := validBooking()
	existing.ID = "507f1f77bcf86cd799439044"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	err := svc.Cancel(context.Background(), existing.ID, Requester{Username: "ops", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{})

	err := svc.Cancel(context.Background(), "507f1f77bcf86cd799439099", Requester{Username: "rina", Role: model.RoleUser})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

// ────────────────────────────────────────────────
// Tests for BulkCancel()
// ────────────────────────────────────────────────

func TestBulkCancel_RequiresAdmin(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{})

	_, err := svc.BulkCancel(context.Background(), []string{"507f1f77bcf86cd799439044"}, Requester{Username: "rina", Role: model.RoleUser})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected code %s, got %s", apperrors.CodeForbidden, appErr.Code)
	}
}

func TestBulkCancel_ReturnsDeletedCount(t *testing.T) {
	repo := &mockBookingRepository{
		deleteManyFunc: func(ctx context.Context, ids []string) (int64, error) {
			return 2, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	deleted, err := svc.BulkCancel(
		context.Background(),
		[]string{"507f1f77bcf86cd799439044", "507f1f77bcf86cd799439045", "507f1f77bcf86cd799439046"},
		Requester{Username: "ops", Role: model.RoleAdmin},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deletions, got %d", deleted)
	}
}

// ────────────────────────────────────────────────
// Tests for ListByRequester()
// ────────────────────────────────────────────────

func TestListByRequester_AdminSeesAllBookings(t *testing.T) {
	repo := &mockBookingRepository{
		findByUsernameFunc: func(ctx context.Context, username string, endingAfter, day time.Time, limit int, offset int64) ([]*model.Booking, error) {
			t.Error("admin listing must not be scoped to a username")
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	_, _, err := svc.ListByRequester(context.Background(), Requester{Username: "ops", Role: model.RoleAdmin}, false, time.Time{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.findAllCalled {
		t.Error("expected admin listing to read all bookings")
	}
}

func TestListByRequester_DefaultsToNotYetEnded(t *testing.T) {
	var gotEndingAfter time.Time
	repo := &mockBookingRepository{
		findByUsernameFunc: func(ctx context.Context, username string, endingAfter, day time.Time, limit int, offset int64) ([]*model.Booking, error) {
			gotEndingAfter = endingAfter
			if username != "rina" {
				t.Errorf("expected normalized username rina, got %q", username)
			}
			return []*model.Booking{}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	before := time.Now()
	_, _, err := svc.ListByRequester(context.Background(), Requester{Username: "  Rina ", Role: model.RoleUser}, false, time.Time{}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEndingAfter.Before(before) {
		t.Errorf("expected ended bookings filtered out from %v, got cutoff %v", before, gotEndingAfter)
	}
}

func TestListByRequester_HistoryAndDayFilter(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockBookingRepository{
		findByUsernameFunc: func(ctx context.Context, username string, endingAfter, gotDay time.Time, limit int, offset int64) ([]*model.Booking, error) {
			if !endingAfter.IsZero() {
				t.Errorf("history listing must not filter ended bookings, got cutoff %v", endingAfter)
			}
			if !gotDay.Equal(day) {
				t.Errorf("expected day filter %v, got %v", day, gotDay)
			}
			return []*model.Booking{}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{})

	if _, _, err := svc.ListByRequester(context.Background(), Requester{Username: "rina", Role: model.RoleUser}, true, day, 20, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
