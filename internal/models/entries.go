package models

// EntryTag is a tag attached to a time entry.
type EntryTag struct {
	TagListName string `json:"tagListName"`
	TagListID   string `json:"tagListId"`
	TagID       string `json:"tagId"`
	Name        string `json:"name"`
	Mandatory   string `json:"mandatory"`
}

// TimeEntry is one logged period of work. Numeric fields arrive
// string-encoded and are coerced on decode.
type TimeEntry struct {
	ID               FlexInt    `json:"id"`
	Duration         FlexInt    `json:"duration"`
	UserID           string     `json:"user_id"`
	UserName         string     `json:"user_name"`
	TaskID           FlexInt    `json:"task_id"`
	TaskNote         string     `json:"task_note,omitempty"`
	LastModify       string     `json:"last_modify"`
	Date             string     `json:"date"`
	StartTime        string     `json:"start_time"`
	EndTime          string     `json:"end_time"`
	Locked           string     `json:"locked"`
	Name             string     `json:"name"`
	AddonsExternalID string     `json:"addons_external_id,omitempty"`
	Billable         FlexInt    `json:"billable"`
	InvoiceID        string     `json:"invoiceId,omitempty"`
	Color            string     `json:"color,omitempty"`
	Description      string     `json:"description,omitempty"`
	Tags             []EntryTag `json:"tags,omitempty"`
}

// TimeEntriesQuery scopes a ranged entry fetch.
type TimeEntriesQuery struct {
	From    string
	To      string
	UserIDs string
	TaskIDs string
}

// CreateTimeEntryRequest holds the writable entry fields.
type CreateTimeEntryRequest struct {
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	TaskID      int    `json:"task_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Billable    *int   `json:"billable,omitempty"`
	Tags        string `json:"tags,omitempty"`
}

// EntryMutationResponse is the create/update response; the id field name
// varies between entry_id and id.
type EntryMutationResponse struct {
	EntryID FlexInt `json:"entry_id"`
	ID      FlexInt `json:"id"`
}

// ResolvedID returns whichever id field the server populated.
func (r EntryMutationResponse) ResolvedID() int {
	if r.EntryID != 0 {
		return r.EntryID.Int()
	}
	return r.ID.Int()
}
