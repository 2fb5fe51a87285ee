package models

// User is the current-user profile returned by GET /me.
type User struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	Timezone       string `json:"timezone"`
	GroupID        string `json:"group_id"`
	RootGroupID    string `json:"root_group_id"`
	UserAccessRole string `json:"user_access_role,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

// GroupUser is one member of a group listing. Some deployments key the
// member id as user_id, others as id.
type GroupUser struct {
	UserID      FlexInt `json:"user_id"`
	ID          FlexInt `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name,omitempty"`
	GroupID     FlexInt `json:"group_id,omitempty"`
}

// MemberID returns whichever id field the server populated, 0 if neither.
func (u GroupUser) MemberID() int {
	if u.UserID != 0 {
		return u.UserID.Int()
	}
	return u.ID.Int()
}

// InviteStatus is the per-address outcome of a membership creation call.
type InviteStatus struct {
	Status string `json:"status"`
}

// InviteResponse is the raw membership creation response.
type InviteResponse struct {
	Statuses map[string]InviteStatus `json:"statuses"`
}
