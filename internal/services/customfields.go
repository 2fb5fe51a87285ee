package services

import (
	"fmt"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// CustomFieldsService handles custom field template management
type CustomFieldsService struct {
	client *client.APIClient
}

// NewCustomFieldsService creates a new custom fields service
func NewCustomFieldsService(apiClient *client.APIClient) *CustomFieldsService {
	return &CustomFieldsService{
		client: apiClient,
	}
}

// GetAll retrieves all custom field templates.
func (s *CustomFieldsService) GetAll() ([]models.CustomFieldTemplate, error) {
	var response models.CustomFieldTemplatesResponse
	endpoint := client.BuildV3Endpoint("custom-fields/template/list")
	if err := s.client.Get(endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get custom field templates: %w", err)
	}

	return response.Data, nil
}

// Create adds a new custom field template.
func (s *CustomFieldsService) Create(req models.CreateCustomFieldRequest) error {
	endpoint := client.BuildV3Endpoint("custom-fields/template/create")
	if err := s.client.Post(endpoint, req, nil); err != nil {
		return fmt.Errorf("failed to create custom field template: %w", err)
	}

	return nil
}

// Update modifies an existing custom field template.
func (s *CustomFieldsService) Update(templateID int, req models.UpdateCustomFieldRequest) error {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/template/%d/modify", templateID))
	if err := s.client.Put(endpoint, req, nil); err != nil {
		return fmt.Errorf("failed to update custom field template %d: %w", templateID, err)
	}

	return nil
}

// Delete removes a custom field template.
func (s *CustomFieldsService) Delete(templateID int) error {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/template/%d/remove", templateID))
	if err := s.client.Delete(endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete custom field template %d: %w", templateID, err)
	}

	return nil
}

// ResourceFields exposes custom field values bound to one resource instance.
type ResourceFields struct {
	client       *client.APIClient
	resourceType models.CustomFieldResourceType
	resourceID   int
}

// Resource returns a value accessor for one resource instance.
func (s *CustomFieldsService) Resource(resourceType models.CustomFieldResourceType, resourceID int) *ResourceFields {
	return &ResourceFields{
		client:       s.client,
		resourceType: resourceType,
		resourceID:   resourceID,
	}
}

// Values retrieves all custom field values assigned to the resource.
func (r *ResourceFields) Values() ([]models.CustomFieldValue, error) {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/values/resource/%d/type/%s", r.resourceID, r.resourceType))

	var response models.CustomFieldValuesResponse
	if err := r.client.Get(endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get custom field values: %w", err)
	}

	return response.Data, nil
}

// Value retrieves one custom field value on the resource.
func (r *ResourceFields) Value(customFieldID int) (*models.CustomFieldValue, error) {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/%d/value/%d", customFieldID, r.resourceID))

	var response models.CustomFieldAssignmentResponse
	if err := r.client.Get(endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get custom field %d value: %w", customFieldID, err)
	}

	return &response.Data, nil
}

// Assign sets a custom field value on the resource.
func (r *ResourceFields) Assign(customFieldID int, value string) (*models.CustomFieldValue, error) {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/%d/assign/%d", customFieldID, r.resourceID))

	var response models.CustomFieldAssignmentResponse
	if err := r.client.Post(endpoint, map[string]string{"value": value}, &response); err != nil {
		return nil, fmt.Errorf("failed to assign custom field %d: %w", customFieldID, err)
	}

	return &response.Data, nil
}

// Unassign clears a custom field value on the resource.
func (r *ResourceFields) Unassign(customFieldID int) error {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("custom-fields/%d/unassign/%d", customFieldID, r.resourceID))

	if err := r.client.Delete(endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to unassign custom field %d: %w", customFieldID, err)
	}

	return nil
}
