package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// TagsService handles tag and tag list management
type TagsService struct {
	client *client.APIClient
}

// NewTagsService creates a new tags service
func NewTagsService(apiClient *client.APIClient) *TagsService {
	return &TagsService{
		client: apiClient,
	}
}

// GetTagLists retrieves tag lists matching the query.
func (s *TagsService) GetTagLists(query models.TagListsQuery) ([]models.TagListWithTags, error) {
	params := map[string]string{}
	if query.TaskID != nil {
		params["task_id"] = strconv.Itoa(*query.TaskID)
	}
	if query.Archived != nil {
		params["archived"] = strconv.Itoa(*query.Archived)
	}
	if query.Tags != nil {
		params["tags"] = strconv.Itoa(*query.Tags)
	}
	if query.ExcludeEmptyTagLists != nil {
		params["exclude_empty_tag_lists"] = strconv.Itoa(*query.ExcludeEmptyTagLists)
	}
	if query.UseRestrictions != nil {
		params["use_restrictions"] = strconv.Itoa(*query.UseRestrictions)
	}

	var raw json.RawMessage
	if err := s.client.Get("tag_list", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get tag lists: %w", err)
	}

	lists, err := models.NormalizeCollection[models.TagListWithTags](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize tag lists response: %w", err)
	}

	return lists, nil
}

// GetTagList retrieves one tag list expanded with its tags.
func (s *TagsService) GetTagList(tagListID int) (*models.TagListWithTags, error) {
	var list models.TagListWithTags
	if err := s.client.Get(fmt.Sprintf("tag_list/%d", tagListID), nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get tag list %d: %w", tagListID, err)
	}

	return &list, nil
}

// CreateTagList creates a tag list and returns its id.
func (s *TagsService) CreateTagList(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("tag list name is required")
	}

	var id models.FlexInt
	if err := s.client.Post("tag_list", map[string]string{"name": name}, &id); err != nil {
		return 0, fmt.Errorf("failed to create tag list: %w", err)
	}

	return id.Int(), nil
}

// UpdateTagList renames or archives a tag list.
func (s *TagsService) UpdateTagList(tagListID int, name string, archived *int) error {
	body := map[string]interface{}{}
	if name != "" {
		body["name"] = name
	}
	if archived != nil {
		body["archived"] = *archived
	}

	if err := s.client.Put(fmt.Sprintf("tag_list/%d", tagListID), body, nil); err != nil {
		return fmt.Errorf("failed to update tag list %d: %w", tagListID, err)
	}

	return nil
}

// GetTagListTags retrieves only the tags of a tag list.
func (s *TagsService) GetTagListTags(tagListID int) ([]models.Tag, error) {
	var raw json.RawMessage
	if err := s.client.Get(fmt.Sprintf("tag_list/%d/tags", tagListID), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get tags of tag list %d: %w", tagListID, err)
	}

	tags, err := models.NormalizeCollection[models.Tag](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize tags response: %w", err)
	}

	return tags, nil
}

// CreateTag creates a tag in a tag list and returns its id.
func (s *TagsService) CreateTag(tagListID int, name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("tag name is required")
	}

	body := map[string]interface{}{
		"list": tagListID,
		"name": name,
	}

	var id models.FlexInt
	if err := s.client.Post("tag", body, &id); err != nil {
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}

	return id.Int(), nil
}

// GetTag retrieves one tag.
func (s *TagsService) GetTag(tagID int) (*models.Tag, error) {
	var tag models.Tag
	if err := s.client.Get(fmt.Sprintf("tag/%d", tagID), nil, &tag); err != nil {
		return nil, fmt.Errorf("failed to get tag %d: %w", tagID, err)
	}

	return &tag, nil
}

// UpdateTag renames or archives a tag.
func (s *TagsService) UpdateTag(tagID int, name string, archived *int) error {
	body := map[string]interface{}{}
	if name != "" {
		body["name"] = name
	}
	if archived != nil {
		body["archived"] = *archived
	}

	if err := s.client.Put(fmt.Sprintf("tag/%d", tagID), body, nil); err != nil {
		return fmt.Errorf("failed to update tag %d: %w", tagID, err)
	}

	return nil
}
