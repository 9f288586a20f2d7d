package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/divvyhq/divvy/internal/metrics"
	"github.com/divvyhq/divvy/internal/storage"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 50 * time.Millisecond
)

// Updater applies delta batches to a balance store. Each delta is handed to
// the store's ApplyDelta, which mutates both directions of the pair
// atomically; the Updater itself never reads a balance to write it.
type Updater struct {
	store    storage.BalanceStore
	attempts int
	backoff  time.Duration
}

// NewUpdater creates an Updater with the default retry policy
// (3 attempts, 50ms doubling backoff).
func NewUpdater(store storage.BalanceStore) *Updater {
	return &Updater{store: store, attempts: defaultAttempts, backoff: defaultBackoff}
}

// Apply applies all deltas of one expense as a batch. If any delta cannot be
// applied after bounded retries, deltas already applied are rolled back by
// applying their negations, and the whole batch fails with ErrUpdateFailed.
// Deltas from one expense touch disjoint pairs, so their relative order does
// not matter.
func (u *Updater) Apply(ctx context.Context, deltas []Delta) error {
	timer := time.Now()
	defer func() { metrics.ApplyDuration.Observe(time.Since(timer).Seconds()) }()

	for i, d := range deltas {
		if err := u.applyOne(ctx, d); err != nil {
			u.rollback(ctx, deltas[:i])
			return fmt.Errorf("%w: %s owes %s %s: %v",
				ErrUpdateFailed, d.Debtor, d.Creditor, d.Amount, err)
		}
	}
	return nil
}

// applyOne applies a single delta with bounded retries.
func (u *Updater) applyOne(ctx context.Context, d Delta) error {
	var err error
	delay := u.backoff
	for attempt := 1; attempt <= u.attempts; attempt++ {
		err = u.store.ApplyDelta(ctx, d.Debtor, d.Creditor, d.Amount)
		if err == nil {
			return nil
		}
		if attempt == u.attempts {
			break
		}
		metrics.DeltaRetries.Inc()
		slog.Warn("delta apply failed, retrying",
			"debtor", d.Debtor,
			"creditor", d.Creditor,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// rollback undoes already-applied deltas after a batch failure so no deltas
// from the failed expense remain visible. Each undo gets the same bounded
// retries; if one still fails the pair is logged loudly, since the store
// itself never breaks the mirror invariant, only expense atomicity.
func (u *Updater) rollback(ctx context.Context, applied []Delta) {
	if len(applied) == 0 {
		return
	}
	// The batch may have failed precisely because the caller's context was
	// canceled; the compensating writes must still reach the store, so they
	// run on a detached context.
	ctx = context.WithoutCancel(ctx)
	metrics.Rollbacks.Inc()
	for _, d := range applied {
		undo := Delta{Debtor: d.Creditor, Creditor: d.Debtor, Amount: d.Amount}
		if err := u.applyOne(ctx, undo); err != nil {
			slog.Error("rollback failed, pair retains delta from aborted expense",
				"debtor", d.Debtor,
				"creditor", d.Creditor,
				"amount", d.Amount,
				"error", err,
			)
		}
	}
}
