package dto

import (
	"time"

	"github.com/yigit/skillshare/internal/app/models"
)

// UserResponse is the private view of the caller's own account
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles" example:"learner"`
	Title     string    `json:"title,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicProfileResponse is what other users see
type PublicProfileResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Title     string   `json:"title,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Roles     []string `json:"roles"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required,notblank,min=2,max=100"`
	Title     string `json:"title" binding:"max=120"`
	Bio       string `json:"bio" binding:"max=2000"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
}

// NewUserResponse maps a user to its private view
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     u.Roles.Strings(),
		Title:     u.Title,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// NewPublicProfileResponse maps a user to its public view
func NewPublicProfileResponse(u *models.User) PublicProfileResponse {
	return PublicProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Title:     u.Title,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Roles:     u.Roles.Strings(),
	}
}
