package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// TimeEntriesService handles time entry management
type TimeEntriesService struct {
	client *client.APIClient
}

// NewTimeEntriesService creates a new time entries service
func NewTimeEntriesService(apiClient *client.APIClient) *TimeEntriesService {
	return &TimeEntriesService{
		client: apiClient,
	}
}

// Get retrieves time entries for a date range.
func (s *TimeEntriesService) Get(query models.TimeEntriesQuery) ([]models.TimeEntry, error) {
	params := map[string]string{
		"from":       query.From,
		"to":         query.To,
		"opt_fields": "tags",
	}
	if query.UserIDs != "" {
		params["user_ids"] = query.UserIDs
	}
	if query.TaskIDs != "" {
		params["task_ids"] = query.TaskIDs
	}

	var raw json.RawMessage
	if err := s.client.Get("entries", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get time entries: %w", err)
	}

	entries, err := models.NormalizeCollection[models.TimeEntry](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize entries response: %w", err)
	}

	return entries, nil
}

// Create logs a new time entry and returns its id.
func (s *TimeEntriesService) Create(entry models.CreateTimeEntryRequest) (int, error) {
	body, err := entryRequestBody(entry)
	if err != nil {
		return 0, err
	}
	body["service"] = s.client.ClientName()

	var response models.EntryMutationResponse
	if err := s.client.Post("entries", body, &response); err != nil {
		return 0, fmt.Errorf("failed to create time entry: %w", err)
	}

	return response.ResolvedID(), nil
}

// Update modifies an existing time entry.
func (s *TimeEntriesService) Update(id int, entry models.CreateTimeEntryRequest) (int, error) {
	body, err := entryRequestBody(entry)
	if err != nil {
		return 0, err
	}
	body["id"] = strconv.Itoa(id)
	body["service"] = s.client.ClientName()

	var response models.EntryMutationResponse
	if err := s.client.Put("entries", body, &response); err != nil {
		return 0, fmt.Errorf("failed to update time entry %d: %w", id, err)
	}

	return response.ResolvedID(), nil
}

// Delete removes a time entry.
func (s *TimeEntriesService) Delete(id int) error {
	body := map[string]string{
		"id":      strconv.Itoa(id),
		"service": s.client.ClientName(),
	}

	if err := s.client.Delete("entries", body, nil); err != nil {
		return fmt.Errorf("failed to delete time entry %d: %w", id, err)
	}

	return nil
}

// GetTags retrieves the tags attached to a time entry.
func (s *TimeEntriesService) GetTags(entryID int) ([]models.EntryTag, error) {
	var raw json.RawMessage
	if err := s.client.Get(fmt.Sprintf("entries/%d/tags", entryID), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get tags for entry %d: %w", entryID, err)
	}

	tags, err := models.NormalizeCollection[models.EntryTag](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize entry tags response: %w", err)
	}

	return tags, nil
}

// AddTags attaches tags to a time entry.
func (s *TimeEntriesService) AddTags(entryID int, tagIDs []int) error {
	body := map[string]string{"tags": joinIDs(tagIDs)}
	if err := s.client.Put(fmt.Sprintf("entries/%d/tags", entryID), body, nil); err != nil {
		return fmt.Errorf("failed to add tags to entry %d: %w", entryID, err)
	}

	return nil
}

// RemoveTags detaches tags from a time entry.
func (s *TimeEntriesService) RemoveTags(entryID int, tagIDs []int) error {
	body := map[string]string{"tags": joinIDs(tagIDs)}
	if err := s.client.Delete(fmt.Sprintf("entries/%d/tags", entryID), body, nil); err != nil {
		return fmt.Errorf("failed to remove tags from entry %d: %w", entryID, err)
	}

	return nil
}

func entryRequestBody(entry models.CreateTimeEntryRequest) (map[string]interface{}, error) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry request: %w", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &body); err != nil {
		return nil, fmt.Errorf("failed to build entry request body: %w", err)
	}

	return body, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
