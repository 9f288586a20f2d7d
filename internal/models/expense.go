package models

import "github.com/shopspring/decimal"

// Share is one participant's percentage slice of an expense.
type Share struct {
	// UserID identifies the participant.
	UserID string `json:"user"`

	// Percentage is the participant's share of the total, in (0, 100].
	// All shares of an expense must sum to 100 (within a small epsilon).
	Percentage decimal.Decimal `json:"percentage"`
}

// Expense is a single payment made by one user on behalf of several.
// Expenses are ephemeral inputs to the ledger: splitting one produces a set
// of balance deltas, and only those deltas (plus an optional history record
// per group) are persisted.
type Expense struct {
	// Description is a free-form label for the expense.
	Description string `json:"description"`

	// Amount is the total paid, strictly positive.
	Amount decimal.Decimal `json:"amount"`

	// PaidBy is the user ID of the payer.
	PaidBy string `json:"paidBy"`

	// SplitBetween lists the participants and their percentage shares.
	// The payer may appear here; their own share is a self-share and
	// produces no debt.
	SplitBetween []Share `json:"splitBetween"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	// Set by the service, not the caller.
	CreatedAt int64 `json:"createdAt,omitempty"`
}
