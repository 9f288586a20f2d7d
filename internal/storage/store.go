// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
)

// ErrNotFound is returned when a requested record does not exist. Backends
// wrap it with detail; callers match with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (user email, group ID)
// would be violated.
var ErrDuplicate = errors.New("already exists")

// BalanceStore is the ledger's only view of persisted balance state.
//
// The mirror invariant (balance(A,B) == -balance(B,A)) is the store's
// responsibility: ApplyDelta mutates both directions of a pair in a single
// atomic operation, so no reader can observe one half without the other.
// The ledger core never reads a balance in order to write it; ApplyDelta is
// the sole mutation primitive and must compose atomically under concurrent
// callers touching the same pair.
type BalanceStore interface {
	// Balance reads one pairwise balance from owner's perspective.
	// The second return is false when no record exists for the pair.
	Balance(ctx context.Context, owner, counterparty string) (decimal.Decimal, bool, error)

	// Balances reads all of owner's pairwise balances, keyed by
	// counterparty. An empty map means the owner has no balance records
	// at all; it is not an error.
	Balances(ctx context.Context, owner string) (map[string]decimal.Decimal, error)

	// ApplyDelta atomically increments balance(creditor, debtor) by
	// amount and decrements balance(debtor, creditor) by amount.
	// Missing records default to zero before the increment.
	ApplyDelta(ctx context.Context, debtor, creditor string, amount decimal.Decimal) error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the email
	// is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group. Returns ErrDuplicate if the
	// group ID is taken.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// SetGroupMembers replaces the group's member list.
	// Returns ErrNotFound if the group does not exist.
	SetGroupMembers(ctx context.Context, groupID string, members []string) error
}

// ExpenseStore keeps the per-group expense history. History is plumbing for
// display; ledger state lives exclusively in the BalanceStore.
type ExpenseStore interface {
	// AppendExpense appends an expense to the group's history.
	AppendExpense(ctx context.Context, groupID string, expense *models.Expense) error

	// ListExpenses returns a group's expense history in insertion order.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)
}

// Store bundles the four interfaces for backends that implement them all.
type Store interface {
	BalanceStore
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
