package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// UserService manages user accounts.
type UserService struct {
	store storage.UserStore
}

// NewUserService creates a UserService with the given storage backend.
func NewUserService(store storage.UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user with a server-generated ID. Duplicate
// emails are rejected with storage.ErrDuplicate.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}
