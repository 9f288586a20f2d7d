package models

import "github.com/shopspring/decimal"

// LiabilitySummary is a user's aggregated ledger position. It is derived
// from stored balance records, never persisted itself.
type LiabilitySummary struct {
	// UserID is the user the summary belongs to.
	UserID string `json:"userId"`

	// TotalOwed is the sum of this user's negative balances, as a
	// positive amount: how much they owe others in total.
	TotalOwed decimal.Decimal `json:"totalOwed"`

	// TotalTake is the sum of this user's positive balances: how much
	// others owe them in total.
	TotalTake decimal.Decimal `json:"totalTake"`

	// Balances maps counterparty user ID to the signed pairwise balance.
	// Positive means the counterparty owes this user. Settled (zero)
	// relationships stay visible here.
	Balances map[string]decimal.Decimal `json:"balances"`
}
