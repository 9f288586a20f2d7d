// Package ledger implements the expense-splitting and pairwise-balance
// core: converting an expense into directed balance deltas, applying them
// atomically to a store, and aggregating a user's balances into a liability
// summary.
//
// Amounts are rounded to two decimal places with round-half-even
// (decimal.RoundBank), and the percentage sum of a split must land strictly
// within 0.01 of 100 (a sum of 99.99 is already invalid). Both constants are
// pinned here so every component presents the same precision.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
)

// Precision is the number of decimal places in every ledger amount.
const Precision = 2

var (
	hundred    = decimal.NewFromInt(100)
	sumEpsilon = decimal.RequireFromString("0.01")
)

// Delta is a directed debt produced by splitting one expense: Debtor owes
// Creditor Amount.
type Delta struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal
}

// Split validates an expense and computes its balance deltas, one per
// participant other than the payer. A payer listed in SplitBetween is a
// self-share and yields no delta. Split performs no I/O and is
// deterministic: deltas come out in SplitBetween order.
func Split(exp models.Expense) ([]Delta, error) {
	if !exp.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSplit, exp.Amount)
	}
	if exp.PaidBy == "" {
		return nil, fmt.Errorf("%w: paidBy is required", ErrInvalidSplit)
	}
	if len(exp.SplitBetween) == 0 {
		return nil, fmt.Errorf("%w: splitBetween must not be empty", ErrInvalidSplit)
	}

	sum := decimal.Zero
	seen := make(map[string]bool, len(exp.SplitBetween))
	for _, share := range exp.SplitBetween {
		if share.UserID == "" {
			return nil, fmt.Errorf("%w: share is missing a user", ErrInvalidSplit)
		}
		if seen[share.UserID] {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrInvalidSplit, share.UserID)
		}
		seen[share.UserID] = true
		if !share.Percentage.IsPositive() || share.Percentage.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: percentage for %s must be in (0, 100], got %s",
				ErrInvalidSplit, share.UserID, share.Percentage)
		}
		sum = sum.Add(share.Percentage)
	}
	if sum.Sub(hundred).Abs().GreaterThanOrEqual(sumEpsilon) {
		return nil, fmt.Errorf("%w: percentages sum to %s, want 100", ErrInvalidSplit, sum)
	}

	deltas := make([]Delta, 0, len(exp.SplitBetween))
	for _, share := range exp.SplitBetween {
		if share.UserID == exp.PaidBy {
			// Self-share: owing money to oneself is a no-op.
			continue
		}
		owed := exp.Amount.Mul(share.Percentage).Div(hundred).RoundBank(Precision)
		deltas = append(deltas, Delta{
			Debtor:   share.UserID,
			Creditor: exp.PaidBy,
			Amount:   owed,
		})
	}
	return deltas, nil
}
