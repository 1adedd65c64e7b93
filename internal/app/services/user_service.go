package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/skillshare/internal/app/models/dto"
)

// UserService defines the interface for profile operations
type UserService interface {
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	users UserStore
}

// NewUserService creates a new UserService
func NewUserService(users UserStore) UserService {
	return &userServiceImpl{users: users}
}

// GetMe returns the caller's own account
func (s *userServiceImpl) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// GetPublicProfile returns what other users may see
func (s *userServiceImpl) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPublicProfileResponse(user)
	return &resp, nil
}

// UpdateProfile replaces the editable profile fields
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Title = strings.TrimSpace(req.Title)
	user.Bio = strings.TrimSpace(req.Bio)
	user.AvatarURL = strings.TrimSpace(req.AvatarURL)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
