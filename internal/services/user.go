package services

import (
	"fmt"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/logger"
	"github.com/kelsos/timecamp-cli/internal/models"
	"github.com/kelsos/timecamp-cli/internal/storage"
)

// UserService handles current-user operations
type UserService struct {
	client *client.APIClient
	config *config.Config
}

// NewUserService creates a new current-user service
func NewUserService(apiClient *client.APIClient, cfg *config.Config) *UserService {
	return &UserService{
		client: apiClient,
		config: cfg,
	}
}

// Get fetches the authenticated user's profile from the API
func (s *UserService) Get() (*models.User, error) {
	var user models.User
	if err := s.client.Get("me", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	return &user, nil
}

// GetCached returns the current-user profile, preferring the on-disk cache
// while it is fresh. Cache write failures are logged, not fatal.
func (s *UserService) GetCached() (*models.User, error) {
	if user, ok := storage.LoadProfile(s.config.ProfileCacheTTL); ok {
		logger.Debug("Using cached profile for user %s", user.UserID)
		return user, nil
	}

	user, err := s.Get()
	if err != nil {
		return nil, err
	}

	if err := storage.SaveProfile(*user); err != nil {
		logger.Warn("Failed to cache current-user profile: %v", err)
	}

	return user, nil
}
