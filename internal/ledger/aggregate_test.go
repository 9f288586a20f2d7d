package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/storage/memory"
)

// brokenStore fails every read.
type brokenStore struct {
	*memory.Store
}

func (b *brokenStore) Balances(context.Context, string) (map[string]decimal.Decimal, error) {
	return nil, errStoreDown
}

func TestAggregate(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	// U is owed 50 by V and owes 20 to W.
	if err := store.ApplyDelta(ctx, "V", "U", dec("50")); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if err := store.ApplyDelta(ctx, "U", "W", dec("20")); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	summary, err := NewAggregator(store).Aggregate(ctx, "U")
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if summary.UserID != "U" {
		t.Errorf("UserID = %s, want U", summary.UserID)
	}
	if !summary.TotalOwed.Equal(dec("20")) {
		t.Errorf("TotalOwed = %s, want 20", summary.TotalOwed)
	}
	if !summary.TotalTake.Equal(dec("50")) {
		t.Errorf("TotalTake = %s, want 50", summary.TotalTake)
	}
	if len(summary.Balances) != 2 {
		t.Fatalf("Balances has %d entries, want 2: %v", len(summary.Balances), summary.Balances)
	}
	if !summary.Balances["V"].Equal(dec("50")) {
		t.Errorf("Balances[V] = %s, want 50", summary.Balances["V"])
	}
	if !summary.Balances["W"].Equal(dec("-20")) {
		t.Errorf("Balances[W] = %s, want -20", summary.Balances["W"])
	}
}

func TestAggregateNoRecordsIsNotFound(t *testing.T) {
	_, err := NewAggregator(memory.New()).Aggregate(context.Background(), "nobody")
	if !errors.Is(err, ErrNoBalances) {
		t.Fatalf("Aggregate error = %v, want ErrNoBalances", err)
	}
}

func TestAggregateSettledBalanceStaysVisible(t *testing.T) {
	// U lends V 50, V pays it back. The relationship nets to zero but the
	// record still exists, so U gets a summary rather than not-found.
	store := memory.New()
	ctx := context.Background()

	if err := store.ApplyDelta(ctx, "V", "U", dec("50")); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if err := store.ApplyDelta(ctx, "U", "V", dec("50")); err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}

	summary, err := NewAggregator(store).Aggregate(ctx, "U")
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if !summary.TotalOwed.IsZero() || !summary.TotalTake.IsZero() {
		t.Errorf("totals = owed %s / take %s, want 0 / 0", summary.TotalOwed, summary.TotalTake)
	}
	balance, ok := summary.Balances["V"]
	if !ok {
		t.Fatal("settled counterparty V missing from Balances")
	}
	if !balance.IsZero() {
		t.Errorf("Balances[V] = %s, want 0", balance)
	}
}

func TestAggregateStoreFailure(t *testing.T) {
	_, err := NewAggregator(&brokenStore{memory.New()}).Aggregate(context.Background(), "U")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Aggregate error = %v, want ErrStoreUnavailable", err)
	}
	if errors.Is(err, ErrNoBalances) {
		t.Fatal("store failure must not look like not-found")
	}
}
