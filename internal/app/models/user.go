package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           string    `json:"id" db:"id" example:"4b6f6f0e-6c1c-4d43-9bb7-0d1d4b1f5c9e"`
	Name         string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email        string    `json:"email" db:"email" example:"ada@example.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        Roles     `json:"roles" db:"roles" swaggertype:"array,string" example:"learner,instructor"`
	Title        string    `json:"title" db:"title" example:"Senior Engineer"`
	Bio          string    `json:"bio" db:"bio"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsInstructor reports whether the user may author skills.
func (u *User) IsInstructor() bool {
	return u.Roles.Has(RoleInstructor)
}

// RefreshToken is a long-lived token exchanged for new access tokens.
type RefreshToken struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
}
