package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// GroupsService handles workspace group management
type GroupsService struct {
	client *client.APIClient
}

// NewGroupsService creates a new groups service
func NewGroupsService(apiClient *client.APIClient) *GroupsService {
	return &GroupsService{
		client: apiClient,
	}
}

// GetAll retrieves all groups.
func (s *GroupsService) GetAll() ([]models.Group, error) {
	var raw json.RawMessage
	if err := s.client.Get("group", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	groups, err := models.NormalizeCollection[models.Group](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize groups response: %w", err)
	}

	return groups, nil
}

// Create adds a new group. The API uses PUT for creation on this endpoint.
func (s *GroupsService) Create(req models.CreateGroupRequest) (*models.Group, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	var group models.Group
	if err := s.client.Put("group", req, &group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &group, nil
}

// Update modifies an existing group. The API uses POST for updates here.
func (s *GroupsService) Update(req models.UpdateGroupRequest) error {
	if req.GroupID == 0 {
		return fmt.Errorf("group id is required")
	}

	body := map[string]interface{}{
		"group_id": req.GroupID,
	}
	if req.Name != "" {
		body["name"] = req.Name
	}
	if req.ParentID != nil {
		body["parent_id"] = strconv.Itoa(*req.ParentID)
	}

	if err := s.client.Post("group", body, nil); err != nil {
		return fmt.Errorf("failed to update group %d: %w", req.GroupID, err)
	}

	return nil
}

// Delete removes a group.
func (s *GroupsService) Delete(groupID int) error {
	body := map[string]int{"group_id": groupID}
	if err := s.client.Delete("group", body, nil); err != nil {
		return fmt.Errorf("failed to delete group %d: %w", groupID, err)
	}

	return nil
}
