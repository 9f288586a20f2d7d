// Package service orchestrates the ledger core and the storage backends
// behind the HTTP surface.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/metrics"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// ExpenseService turns expense submissions into applied ledger deltas and
// answers liability queries.
type ExpenseService struct {
	store      storage.Store
	updater    *ledger.Updater
	aggregator *ledger.Aggregator
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{
		store:      store,
		updater:    ledger.NewUpdater(store),
		aggregator: ledger.NewAggregator(store),
	}
}

// isMember checks if the user is in the member list.
func isMember(userID string, members []string) bool {
	for _, m := range members {
		if m == userID {
			return true
		}
	}
	return false
}

// SubmitExpense validates the expense against the group's membership, splits
// it into deltas, applies them to the ledger and records the expense in the
// group's history. The applied deltas are returned to the caller.
func (s *ExpenseService) SubmitExpense(ctx context.Context, groupID string, exp models.Expense) ([]ledger.Delta, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: groupId is required", ErrInvalidInput)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !isMember(exp.PaidBy, group.Members) {
		return nil, fmt.Errorf("%w: payer %s is not in group %s", ErrNotMember, exp.PaidBy, groupID)
	}
	for _, share := range exp.SplitBetween {
		if !isMember(share.UserID, group.Members) {
			return nil, fmt.Errorf("%w: participant %s is not in group %s", ErrNotMember, share.UserID, groupID)
		}
	}

	deltas, err := ledger.Split(exp)
	if err != nil {
		metrics.InvalidSplits.Inc()
		slog.Error("expense rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	if err := s.updater.Apply(ctx, deltas); err != nil {
		slog.Error("expense apply failed", "group_id", groupID, "paid_by", exp.PaidBy, "error", err)
		return nil, err
	}
	metrics.ExpensesApplied.Inc()

	// History is display plumbing; the ledger write already succeeded, so
	// a history failure is logged rather than surfaced.
	exp.CreatedAt = time.Now().Unix()
	if err := s.store.AppendExpense(ctx, groupID, &exp); err != nil {
		slog.Warn("failed to record expense history", "group_id", groupID, "error", err)
	}

	slog.Info("expense applied",
		"group_id", groupID,
		"paid_by", exp.PaidBy,
		"amount", exp.Amount,
		"deltas", len(deltas),
	)
	return deltas, nil
}

// GetLiability aggregates a user's balances into a liability summary.
func (s *ExpenseService) GetLiability(ctx context.Context, userID string) (*models.LiabilitySummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	return s.aggregator.Aggregate(ctx, userID)
}

// ListGroupExpenses returns a group's expense history.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, groupID)
}
