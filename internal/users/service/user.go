package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	userserrors "roombook/internal/users/errors"
	"roombook/internal/users/repository"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// CreateUserInput carries the plaintext password; it is hashed before the
// user ever reaches the repository.
type CreateUserInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Department string `json:"department,omitempty"`
	PICName    string `json:"pic_name,omitempty"`
	Role       string `json:"role"`
}

type UserService interface {
	Create(ctx context.Context, input *CreateUserInput) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error
	VerifyPassword(ctx context.Context, username, password string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *userService) Create(ctx context.Context, input *CreateUserInput) (*model.User, error) {
	username := sanitizer.NormalizeUsername(input.Username)
	if username == "" {
		return nil, apperrors.InvalidInput("Username cannot be empty")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.Validation("Password must be at least 8 characters", nil)
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return nil, apperrors.Validation("Role must be admin or user", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Department:   sanitizer.NormalizeName(input.Department),
		PICName:      sanitizer.NormalizeName(input.PICName),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateUsername) {
			return nil, apperrors.Conflict("Username already exists")
		}
		s.cfg.Log.Error("Failed to create user", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID, "username", username, "role", role)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) Update(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	if updates.Department != "" {
		existing.Department = sanitizer.NormalizeName(updates.Department)
	}
	if updates.PICName != "" {
		existing.PICName = sanitizer.NormalizeName(updates.PICName)
	}
	if updates.Role != "" {
		if updates.Role != model.RoleAdmin && updates.Role != model.RoleUser {
			return nil, apperrors.Validation("Role must be admin or user", nil)
		}
		existing.Role = updates.Role
	}
	if updates.Password != "" {
		if len(updates.Password) < 8 {
			return nil, apperrors.Validation("Password must be at least 8 characters", nil)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash password", err)
		}
		existing.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, id, existing); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated successfully", "id", id)
	return existing, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

// VerifyPassword checks credentials without revealing whether the username
// or the password was wrong.
func (s *userService) VerifyPassword(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.FindByUsername(ctx, sanitizer.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Forbidden("Invalid username or password")
		}
		return nil, apperrors.Internal("Failed to verify credentials", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Forbidden("Invalid username or password")
	}

	return user, nil
}

func translateRepoError(err error, id string) error {
	if errors.Is(err, userserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("User", id)
	}
	if errors.Is(err, userserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid user ID format")
	}
	return apperrors.Internal("Failed to retrieve user", err)
}
