package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// DirectoryService owns the registered-user directory. Users are immutable
// after registration and are never deleted.
type DirectoryService struct {
	userRepo repository.UserRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(userRepo repository.UserRepository) *DirectoryService {
	return &DirectoryService{userRepo: userRepo}
}

// Register allocates a fresh user with the given role. The phone uniqueness
// check is delegated to the repository insert, which performs it atomically;
// a losing concurrent registration gets repository.ErrDuplicatePhone.
func (s *DirectoryService) Register(ctx context.Context, name, phone string, role domain.Role) (*domain.User, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByPhone resolves a phone number to a user.
func (s *DirectoryService) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	return s.userRepo.GetByPhone(ctx, phone)
}

// FindByID resolves a user ID.
func (s *DirectoryService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves all registered users.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// resolveRole looks up a user and checks their role. Missing users surface
// as notFoundErr, wrong roles as roleErr.
func resolveRole(ctx context.Context, userRepo repository.UserRepository, id string, role domain.Role, notFoundErr, roleErr error) (*domain.User, error) {
	user, err := userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundErr
		}
		return nil, err
	}
	if user.Role != role {
		return nil, roleErr
	}
	return user, nil
}
