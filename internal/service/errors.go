package service

import "errors"

var (
	// ErrInvalidInput means a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownUser means a referenced user ID does not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrNotMember means a user referenced by an expense does not belong
	// to the target group.
	ErrNotMember = errors.New("not a group member")
)
