package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelsos/timecamp-cli/internal/models"
)

// CachedProfile is the on-disk shape of the current-user cache.
type CachedProfile struct {
	User      models.User `json:"user"`
	UpdatedAt int64       `json:"updated_at"`
}

// GetAppDataDir returns the application data directory
func GetAppDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDataDir := filepath.Join(homeDir, ".timecamp-cli")
	if err := os.MkdirAll(appDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app data directory: %w", err)
	}

	return appDataDir, nil
}

// GetProfilePath returns the path to the cached current-user profile
func GetProfilePath() (string, error) {
	appDataDir, err := GetAppDataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(appDataDir, "profile.json"), nil
}

// SaveProfile caches the current-user profile to a file
func SaveProfile(user models.User) error {
	filePath, err := GetProfilePath()
	if err != nil {
		return err
	}

	data := CachedProfile{
		User:      user,
		UpdatedAt: time.Now().Unix(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal profile data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	return nil
}

// LoadProfile reads the cached profile if it exists and is younger than
// maxAge. The second return value reports whether a usable profile was found.
func LoadProfile(maxAge time.Duration) (*models.User, bool) {
	filePath, err := GetProfilePath()
	if err != nil {
		return nil, false
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}

	var data CachedProfile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, false
	}

	if time.Since(time.Unix(data.UpdatedAt, 0)) > maxAge {
		return nil, false
	}

	return &data.User, true
}

// ClearProfile removes the cached profile if present
func ClearProfile() error {
	filePath, err := GetProfilePath()
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile file: %w", err)
	}

	return nil
}
