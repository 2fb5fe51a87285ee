package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the public TimeCamp REST endpoint.
const DefaultBaseURL = "https://app.timecamp.com/third_party/api"

// InviteDefaults are the fixed permission flags sent with every membership
// creation request. The API expects string-encoded booleans.
var InviteDefaults = map[string]string{
	"tt_global_admin":             "0",
	"tt_can_create_level_1_tasks": "0",
	"can_view_rates":              "0",
	"add_to_all_projects":         "0",
	"send_email":                  "0",
	"force_change_pass":           "0",
}

// Config holds all application configuration
type Config struct {
	// API settings
	APIKey     string
	BaseURL    string
	ClientName string
	Timeout    time.Duration

	// Retry settings for rate-limited endpoints
	MaxRetries int
	RetryDelay time.Duration

	// Invite workflow settings
	InvitePollAttempts  int
	InvitePollDelay     time.Duration
	NamePatchMaxRetries int

	// Local state settings
	ProfileCacheTTL time.Duration
	ExportDir       string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		BaseURL:             DefaultBaseURL,
		ClientName:          "timecamp-cli",
		Timeout:             10 * time.Second,
		MaxRetries:          3,
		RetryDelay:          5 * time.Second,
		InvitePollAttempts:  10,
		InvitePollDelay:     2 * time.Second,
		NamePatchMaxRetries: 6,
		ProfileCacheTTL:     15 * time.Minute,
		ExportDir:           "exports",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if apiKey := os.Getenv("TIMECAMP_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}

	if baseURL := os.Getenv("TIMECAMP_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}

	if clientName := os.Getenv("TIMECAMP_CLIENT_NAME"); clientName != "" {
		c.ClientName = clientName
	}

	if timeout := os.Getenv("TIMECAMP_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.Timeout = time.Duration(t) * time.Millisecond
		}
	}

	if retries := os.Getenv("TIMECAMP_MAX_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil {
			c.MaxRetries = r
		}
	}

	if delay := os.Getenv("TIMECAMP_RETRY_DELAY"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil {
			c.RetryDelay = time.Duration(d) * time.Millisecond
		}
	}

	if exportDir := os.Getenv("TIMECAMP_EXPORT_DIR"); exportDir != "" {
		c.ExportDir = exportDir
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %s", c.Timeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got: %d", c.MaxRetries)
	}

	if c.InvitePollAttempts <= 0 {
		return fmt.Errorf("invite poll attempts must be positive, got: %d", c.InvitePollAttempts)
	}

	return nil
}
