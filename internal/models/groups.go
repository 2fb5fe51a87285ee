package models

// Group is a node of the workspace group tree.
type Group struct {
	GroupID     FlexInt `json:"group_id"`
	Name        string  `json:"name"`
	ParentID    FlexInt `json:"parent_id"`
	AdminID     FlexInt `json:"admin_id,omitempty"`
	RootGroupID FlexInt `json:"root_group_id,omitempty"`
}

// CreateGroupRequest holds the writable group fields.
type CreateGroupRequest struct {
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id,omitempty"`
}

// UpdateGroupRequest holds the writable fields for an existing group.
type UpdateGroupRequest struct {
	GroupID  int
	Name     string
	ParentID *int
}
