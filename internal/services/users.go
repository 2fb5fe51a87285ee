package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/logger"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// InviteRequest describes one membership invitation.
type InviteRequest struct {
	Email       string
	DisplayName string
	GroupID     int
}

// InviteResult is the outcome of an invite workflow run. UserID stays empty
// and ResolveErr is set when the new member's id could not be discovered;
// the membership itself was still created. DisplayNameUpdateErr carries a
// failed display-name patch without failing the invite.
type InviteResult struct {
	Statuses             map[string]models.InviteStatus
	UserID               string
	ResolveErr           error
	DisplayNameUpdateErr error
}

// UsersService handles workspace member management
type UsersService struct {
	client *client.APIClient
	user   *UserService
	config *config.Config
}

// NewUsersService creates a new users service
func NewUsersService(apiClient *client.APIClient, userService *UserService, cfg *config.Config) *UsersService {
	return &UsersService{
		client: apiClient,
		user:   userService,
		config: cfg,
	}
}

// GetAll retrieves all users in the workspace. The endpoint returns either
// an array or an id-keyed object depending on the deployment.
func (s *UsersService) GetAll() ([]models.GroupUser, error) {
	var raw json.RawMessage
	if err := s.client.Get("users", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users, err := models.NormalizeCollection[models.GroupUser](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize users response: %w", err)
	}

	return users, nil
}

// UserWithCustomFields pairs a workspace member with their custom field values.
type UserWithCustomFields struct {
	models.GroupUser
	CustomFields []models.CustomFieldValue
}

// GetAllWithCustomFields retrieves all users enriched with their custom
// field values.
func (s *UsersService) GetAllWithCustomFields() ([]UserWithCustomFields, error) {
	users, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	enriched := make([]UserWithCustomFields, 0, len(users))
	for _, user := range users {
		endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/values/resource/%d/type/user", user.MemberID()))

		var values models.CustomFieldValuesResponse
		if err := s.client.Get(endpoint, nil, &values); err != nil {
			return nil, fmt.Errorf("failed to get custom fields for user %d: %w", user.MemberID(), err)
		}

		enriched = append(enriched, UserWithCustomFields{GroupUser: user, CustomFields: values.Data})
	}

	return enriched, nil
}

// Invite creates a membership for the given address. When no group is
// supplied the caller's own root group is used. The creation call retries on
// rate limiting. When a display name was supplied and the address was
// accepted, the group listing is polled to discover the new member's id and
// the name patch goes out through its own retry policy.
func (s *UsersService) Invite(req InviteRequest) (*InviteResult, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}

	groupID := req.GroupID
	if groupID == 0 {
		currentUser, err := s.user.GetCached()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve target group: %w", err)
		}
		groupID, err = strconv.Atoi(currentUser.RootGroupID)
		if err != nil {
			return nil, fmt.Errorf("invalid root group id %q: %w", currentUser.RootGroupID, err)
		}
	}

	body := map[string]interface{}{
		"email": []string{req.Email},
	}
	for key, value := range config.InviteDefaults {
		body[key] = value
	}

	logger.Info("Inviting %s to group %d", req.Email, groupID)

	var inviteResponse models.InviteResponse
	err := s.client.Do(http.MethodPost, fmt.Sprintf("group/%d/user", groupID), client.RequestOptions{
		JSON: body,
		Retry: client.RetryPolicy{
			Enabled:    true,
			MaxRetries: s.config.MaxRetries,
			Delay:      s.config.RetryDelay,
		},
	}, &inviteResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to invite user %s: %w", req.Email, err)
	}

	result := &InviteResult{Statuses: inviteResponse.Statuses}

	// Id discovery only exists to serve the display-name patch, so a
	// name-less invite ends here with the creation statuses alone.
	if req.DisplayName == "" || inviteResponse.Statuses[req.Email].Status == "" {
		return result, nil
	}

	userID, err := s.resolveInvitedUserID(groupID, req.Email)
	if err != nil {
		logger.Warn("Invite for %s created but id resolution failed: %v", req.Email, err)
		result.ResolveErr = err
		return result, nil
	}
	result.UserID = userID

	if err := s.updateDisplayName(userID, req.DisplayName); err != nil {
		logger.Warn("Failed to update display name for %s: %v", req.Email, err)
		result.DisplayNameUpdateErr = err
	}

	return result, nil
}

// resolveInvitedUserID polls the group membership listing until the invited
// address shows up or the attempt budget runs out.
func (s *UsersService) resolveInvitedUserID(groupID int, email string) (string, error) {
	endpoint := fmt.Sprintf("group/%d/user", groupID)

	for attempt := 0; attempt < s.config.InvitePollAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(s.config.InvitePollDelay)
		}

		var raw json.RawMessage
		if err := s.client.Get(endpoint, nil, &raw); err != nil {
			logger.Debug("Membership listing attempt %d failed: %v", attempt+1, err)
			continue
		}

		users, err := models.NormalizeCollection[models.GroupUser](raw)
		if err != nil {
			logger.Debug("Membership listing attempt %d malformed: %v", attempt+1, err)
			continue
		}

		for _, user := range users {
			if user.Email == email && user.MemberID() != 0 {
				return strconv.Itoa(user.MemberID()), nil
			}
		}
	}

	return "", &UserResolutionError{Email: email, Attempts: s.config.InvitePollAttempts}
}

func (s *UsersService) updateDisplayName(userID, displayName string) error {
	return s.client.Do(http.MethodPost, "user", client.RequestOptions{
		Form: map[string]string{
			"display_name": displayName,
			"user_id":      userID,
		},
		Retry: client.RetryPolicy{
			Enabled:    true,
			MaxRetries: s.config.NamePatchMaxRetries,
			Delay:      s.config.RetryDelay,
		},
	}, nil)
}
