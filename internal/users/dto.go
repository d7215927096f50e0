package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angkormart/angkormart-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileDTO is the transport shape for a user's profile.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	ImageURL  *string   `json:"image_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	Username     string
	PasswordHash string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		IsActive:     true,
	}
}

func profileFromModel(p *models.Profile, username string) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  username,
		ImageURL:  p.ImageURL,
		UpdatedAt: p.UpdatedAt,
	}
}
