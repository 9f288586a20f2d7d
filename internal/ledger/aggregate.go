package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// Aggregator reduces a user's raw balance records into a liability summary.
// It is stateless over the store it reads from and never retries: a failed
// read surfaces immediately as ErrStoreUnavailable and any retry policy
// belongs to the caller.
type Aggregator struct {
	store storage.BalanceStore
}

// NewAggregator creates an Aggregator reading from the given store.
func NewAggregator(store storage.BalanceStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate computes the liability summary for userID. A user with no
// balance records at all yields ErrNoBalances; a user whose every balance
// nets to zero still gets a summary, with the settled relationships visible
// in Balances.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) (*models.LiabilitySummary, error) {
	balances, err := a.store.Balances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading balances for %s: %v", ErrStoreUnavailable, userID, err)
	}
	if len(balances) == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrNoBalances, userID)
	}

	summary := &models.LiabilitySummary{
		UserID:    userID,
		TotalOwed: decimal.Zero,
		TotalTake: decimal.Zero,
		Balances:  make(map[string]decimal.Decimal, len(balances)),
	}
	for counterparty, amount := range balances {
		amount = amount.RoundBank(Precision)
		summary.Balances[counterparty] = amount
		switch {
		case amount.IsNegative():
			summary.TotalOwed = summary.TotalOwed.Add(amount.Neg())
		case amount.IsPositive():
			summary.TotalTake = summary.TotalTake.Add(amount)
		}
	}
	return summary, nil
}
