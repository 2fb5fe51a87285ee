package models

import "encoding/json"

// CustomFieldResourceType names the entity kind a custom field attaches to.
type CustomFieldResourceType string

const (
	CustomFieldResourceTask  CustomFieldResourceType = "task"
	CustomFieldResourceUser  CustomFieldResourceType = "user"
	CustomFieldResourceEntry CustomFieldResourceType = "entry"
)

// CustomFieldTemplate describes a custom field definition.
type CustomFieldTemplate struct {
	ID           FlexInt         `json:"id"`
	Name         string          `json:"name"`
	ResourceType string          `json:"resourceType"`
	FieldType    string          `json:"fieldType"`
	Required     bool            `json:"required,omitempty"`
	Status       FlexInt         `json:"status,omitempty"`
	DefaultValue *string         `json:"defaultValue,omitempty"`
	FieldOptions json.RawMessage `json:"fieldOptions,omitempty"`
}

// CustomFieldTemplatesResponse wraps the v3 template listing.
type CustomFieldTemplatesResponse struct {
	Data []CustomFieldTemplate `json:"data"`
}

// CustomFieldValue is one assigned value on a resource.
type CustomFieldValue struct {
	CustomFieldID FlexInt `json:"customFieldId"`
	ResourceID    FlexInt `json:"resourceId"`
	Value         string  `json:"value"`
}

// CustomFieldValuesResponse wraps the v3 per-resource value listing.
type CustomFieldValuesResponse struct {
	Data []CustomFieldValue `json:"data"`
}

// CustomFieldAssignmentResponse wraps a single assignment result.
type CustomFieldAssignmentResponse struct {
	Data CustomFieldValue `json:"data"`
}

// CreateCustomFieldRequest holds the writable template fields.
type CreateCustomFieldRequest struct {
	Name         string                  `json:"name"`
	ResourceType CustomFieldResourceType `json:"resourceType"`
	FieldType    string                  `json:"fieldType"`
	Required     *bool                   `json:"required,omitempty"`
	Status       *int                    `json:"status,omitempty"`
	DefaultValue *string                 `json:"defaultValue,omitempty"`
}

// UpdateCustomFieldRequest holds the writable fields for an existing template.
type UpdateCustomFieldRequest struct {
	Name         string  `json:"name,omitempty"`
	Required     *bool   `json:"required,omitempty"`
	Status       *int    `json:"status,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}
