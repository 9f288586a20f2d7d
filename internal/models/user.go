package models

// User represents a registered user.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"userId"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"createdAt"`
}
