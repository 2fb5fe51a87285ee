package models

import "encoding/json"

// Access levels a task grants the authenticated caller. Levels 2 and 3 allow
// logging time; 1 is read-only.
const (
	AccessTypeReadOnly = 1
	AccessTypeWrite    = 2
	AccessTypeAdmin    = 3
)

// TaskUser is one entry of a task's access-control list.
type TaskUser struct {
	UserID FlexInt `json:"user_id"`
	RoleID string  `json:"role_id,omitempty"`
}

// Task is a node in the TimeCamp task forest. ParentID 0 marks a root.
// Identifier and flag fields arrive string-encoded from the API.
type Task struct {
	TaskID         FlexInt             `json:"task_id"`
	ParentID       FlexInt             `json:"parent_id"`
	Name           string              `json:"name"`
	Archived       FlexInt             `json:"archived"`
	Level          FlexInt             `json:"level,omitempty"`
	UserAccessType FlexInt             `json:"user_access_type,omitempty"`
	Users          map[string]TaskUser `json:"users,omitempty"`
	Tags           json.RawMessage     `json:"tags,omitempty"`

	ExternalTaskID   string  `json:"external_task_id,omitempty"`
	ExternalParentID string  `json:"external_parent_id,omitempty"`
	AddDate          string  `json:"add_date,omitempty"`
	Color            string  `json:"color,omitempty"`
	Budgeted         FlexInt `json:"budgeted,omitempty"`
	Billable         FlexInt `json:"billable,omitempty"`
	BudgetUnit       string  `json:"budget_unit,omitempty"`
	RootGroupID      FlexInt `json:"root_group_id,omitempty"`
	AssignedTo       FlexInt `json:"assigned_to,omitempty"`
	AssignedBy       FlexInt `json:"assigned_by,omitempty"`
	DueDate          string  `json:"due_date,omitempty"`
	Note             string  `json:"note,omitempty"`
	PublicHash       string  `json:"public_hash,omitempty"`
	ModifyTime       string  `json:"modify_time,omitempty"`
	TaskKey          string  `json:"task_key,omitempty"`
	Keywords         string  `json:"keywords,omitempty"`

	// CanTrackTime is set by the visibility resolver. It is a pointer so
	// that "absent" and "false" stay distinct on the wire.
	CanTrackTime *bool `json:"canTrackTime,omitempty"`
}

// TaskMap is the id-keyed task collection returned by GET /tasks.
type TaskMap map[string]Task

// DecodeTaskMap decodes a raw GET /tasks response. Entries that are not
// well-formed task objects are skipped instead of failing the whole
// collection.
func DecodeTaskMap(data json.RawMessage) (TaskMap, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	taskMap := make(TaskMap, len(raw))
	for key, entry := range raw {
		var task Task
		if err := json.Unmarshal(entry, &task); err != nil {
			continue
		}
		taskMap[key] = task
	}
	return taskMap, nil
}

// CreateTaskRequest holds the writable task fields.
type CreateTaskRequest struct {
	Name             string `json:"name"`
	ParentID         int    `json:"-"`
	ExternalTaskID   string `json:"external_task_id,omitempty"`
	ExternalParentID string `json:"external_parent_id,omitempty"`
	Budgeted         *int   `json:"budgeted,omitempty"`
	Note             string `json:"note,omitempty"`
	Archived         *int   `json:"archived,omitempty"`
	Billable         *int   `json:"billable,omitempty"`
	BudgetUnit       string `json:"budget_unit,omitempty"`
	UserIDs          string `json:"user_ids,omitempty"`
	Role             string `json:"role,omitempty"`
	Keywords         string `json:"keywords,omitempty"`
	Tags             string `json:"tags,omitempty"`
}

// UpdateTaskRequest holds the writable fields for an existing task.
type UpdateTaskRequest struct {
	TaskID           int    `json:"-"`
	Name             string `json:"name,omitempty"`
	ParentID         *int   `json:"-"`
	ExternalTaskID   string `json:"external_task_id,omitempty"`
	ExternalParentID string `json:"external_parent_id,omitempty"`
	Budgeted         *int   `json:"budgeted,omitempty"`
	Note             string `json:"note,omitempty"`
	Archived         *int   `json:"archived,omitempty"`
	Billable         *int   `json:"billable,omitempty"`
	BudgetUnit       string `json:"budget_unit,omitempty"`
	UserIDs          string `json:"user_ids,omitempty"`
	Role             string `json:"role,omitempty"`
	Keywords         string `json:"keywords,omitempty"`
	Tags             string `json:"tags,omitempty"`
}

// TaskFavorite is one entry of the v3 favourites listing.
type TaskFavorite struct {
	TaskID FlexInt `json:"task_id"`
	Name   string  `json:"name,omitempty"`
}

// TaskFavoritesResponse wraps the v3 favourites listing.
type TaskFavoritesResponse struct {
	Data []TaskFavorite `json:"data"`
}

// TaskFavoriteMutationResponse wraps the v3 favourite add/delete result.
type TaskFavoriteMutationResponse struct {
	Data string `json:"data"`
}
