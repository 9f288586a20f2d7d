package models

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the caller-supplied unique identifier for the group.
	ID string `json:"groupId"`

	// Name is the display name of the group (e.g., "Roommates").
	Name string `json:"groupName"`

	// Members is the list of user IDs in this group.
	Members []string `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}
