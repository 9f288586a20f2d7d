// Package memory provides an in-memory implementation of storage.Store for
// tests and for running the server without external services.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps everything in maps behind one mutex. The mutex gives
// ApplyDelta the same both-or-neither pair semantics the real backends get
// from MULTI/EXEC and SQL transactions.
type Store struct {
	mu       sync.RWMutex
	balances map[string]map[string]decimal.Decimal
	users    map[string]models.User
	emails   map[string]string
	groups   map[string]models.Group
	expenses map[string][]models.Expense
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		balances: make(map[string]map[string]decimal.Decimal),
		users:    make(map[string]models.User),
		emails:   make(map[string]string),
		groups:   make(map[string]models.Group),
		expenses: make(map[string][]models.Expense),
	}
}

// Balance reads one pairwise balance.
func (s *Store) Balance(_ context.Context, owner, counterparty string) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amount, ok := s.balances[owner][counterparty]
	return amount, ok, nil
}

// Balances returns a copy of all of owner's pairwise balances.
func (s *Store) Balances(_ context.Context, owner string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(s.balances[owner]))
	for counterparty, amount := range s.balances[owner] {
		out[counterparty] = amount
	}
	return out, nil
}

// ApplyDelta increments both directions of the pair under one lock.
func (s *Store) ApplyDelta(_ context.Context, debtor, creditor string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.increment(creditor, debtor, amount)
	s.increment(debtor, creditor, amount.Neg())
	return nil
}

func (s *Store) increment(owner, counterparty string, amount decimal.Decimal) {
	m := s.balances[owner]
	if m == nil {
		m = make(map[string]decimal.Decimal)
		s.balances[owner] = m
	}
	m[counterparty] = m[counterparty].Add(amount)
}

// CreateUser persists a new user, rejecting duplicate emails.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[user.Email]; ok {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	return &user, nil
}

// CreateGroup persists a new group, rejecting duplicate IDs.
func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; ok {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
	}
	stored := *group
	stored.Members = append([]string(nil), group.Members...)
	s.groups[group.ID] = stored
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	out := group
	out.Members = append([]string(nil), group.Members...)
	return &out, nil
}

// SetGroupMembers replaces a group's member list.
func (s *Store) SetGroupMembers(_ context.Context, groupID string, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	group.Members = append([]string(nil), members...)
	s.groups[groupID] = group
	return nil
}

// AppendExpense appends an expense to the group's history.
func (s *Store) AppendExpense(_ context.Context, groupID string, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[groupID] = append(s.expenses[groupID], *expense)
	return nil
}

// ListExpenses returns the group's expense history in insertion order.
func (s *Store) ListExpenses(_ context.Context, groupID string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Expense(nil), s.expenses[groupID]...), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
