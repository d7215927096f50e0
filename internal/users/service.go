package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
	pkgerrors "github.com/angkormart/angkormart-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	GetOrCreateProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL *string) error
}

// Service exposes the authenticated user's account and profile operations.
type Service interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*UserDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL *string) (*ProfileDTO, error)
}

type service struct {
	repo userRepository
}

// NewService builds the users service.
func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

// GetMe returns the caller's account fields.
func (s *service) GetMe(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// UpdateUsername renames the caller, enforcing username uniqueness.
func (s *service) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) (*UserDTO, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Username == username {
		return FromModel(user), nil
	}

	if taken, err := s.repo.FindByUsername(ctx, username); err == nil && taken.ID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}

	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update username")
	}
	user.Username = username
	user.UpdatedAt = time.Now().UTC()
	return FromModel(user), nil
}

// GetProfile returns the caller's profile, creating it on first access.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profileFromModel(profile, user.Username), nil
}

// UpdateProfileImage overwrites the profile image URL. A nil URL clears it.
func (s *service) UpdateProfileImage(ctx context.Context, userID uuid.UUID, imageURL *string) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if err := s.repo.UpdateProfileImage(ctx, userID, imageURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile image")
	}
	profile.ImageURL = imageURL
	return profileFromModel(profile, user.Username), nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
