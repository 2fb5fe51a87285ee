package models

// Tag is a single tag within a tag list.
type Tag struct {
	TagID     FlexInt `json:"tag_id"`
	Name      string  `json:"name"`
	ListID    FlexInt `json:"list_id,omitempty"`
	Archived  FlexInt `json:"archived,omitempty"`
}

// TagList groups related tags.
type TagList struct {
	TagListID FlexInt `json:"tag_list_id"`
	Name      string  `json:"name"`
	Archived  FlexInt `json:"archived,omitempty"`
	Mandatory FlexInt `json:"mandatory,omitempty"`
}

// TagListWithTags is a tag list expanded with its tags.
type TagListWithTags struct {
	TagList
	Tags map[string]Tag `json:"tags,omitempty"`
}

// TagListsQuery filters the tag list collection.
type TagListsQuery struct {
	TaskID               *int
	Archived             *int
	Tags                 *int
	ExcludeEmptyTagLists *int
	UseRestrictions      *int
}
