// Package redis provides a Redis-backed implementation of the storage
// interfaces.
//
// Balances live in one hash per user (user:{id}:balances) with the
// counterparty ID as field. Amounts are stored as integer cents and mutated
// with HINCRBY, which is exact; the two halves of a mirror update run inside
// a single MULTI/EXEC transaction so concurrent readers never observe a
// half-applied pair.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements the storage interfaces using Redis.
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Store{client: client}, nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func balancesKey(userID string) string  { return fmt.Sprintf("user:%s:balances", userID) }
func userKey(userID string) string      { return fmt.Sprintf("user:%s", userID) }
func emailKey(email string) string      { return fmt.Sprintf("user:email:%s", email) }
func groupKey(groupID string) string    { return fmt.Sprintf("group:%s:meta", groupID) }
func expensesKey(groupID string) string { return fmt.Sprintf("group:%s:expenses", groupID) }

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).RoundBank(0).IntPart()
}

func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Balance reads one pairwise balance from owner's perspective.
func (s *Store) Balance(ctx context.Context, owner, counterparty string) (decimal.Decimal, bool, error) {
	val, err := s.client.HGet(ctx, balancesKey(owner), counterparty).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get balance: %w", err)
	}
	cents, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt balance %q for %s/%s: %w", val, owner, counterparty, err)
	}
	return fromCents(cents), true, nil
}

// Balances reads all of owner's pairwise balances.
func (s *Store) Balances(ctx context.Context, owner string) (map[string]decimal.Decimal, error) {
	fields, err := s.client.HGetAll(ctx, balancesKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	balances := make(map[string]decimal.Decimal, len(fields))
	for counterparty, val := range fields {
		cents, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance %q for %s/%s: %w", val, owner, counterparty, err)
		}
		balances[counterparty] = fromCents(cents)
	}
	return balances, nil
}

// ApplyDelta increments both directions of the pair inside one MULTI/EXEC.
func (s *Store) ApplyDelta(ctx context.Context, debtor, creditor string, amount decimal.Decimal) error {
	cents := toCents(amount)

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, balancesKey(creditor), debtor, cents)
	pipe.HIncrBy(ctx, balancesKey(debtor), creditor, -cents)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to apply delta %s -> %s: %w", debtor, creditor, err)
	}
	return nil
}

// CreateUser persists a new user, rejecting duplicate emails. The email key
// is claimed with HSETNX first, so two concurrent registrations for the same
// address cannot both succeed.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	claimed, err := s.client.HSetNX(ctx, emailKey(user.Email), "userId", user.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
	}

	fields := map[string]interface{}{
		"userId":    user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, userKey(user.ID), fields)
	pipe.HSet(ctx, emailKey(user.Email), fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	createdAt, _ := strconv.ParseInt(fields["createdAt"], 10, 64)
	return &models.User{
		ID:        fields["userId"],
		Name:      fields["name"],
		Email:     fields["email"],
		CreatedAt: createdAt,
	}, nil
}

// CreateGroup persists a new group, rejecting duplicate IDs.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	exists, err := s.client.Exists(ctx, groupKey(group.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
	}

	members, err := json.Marshal(group.Members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}
	err = s.client.HSet(ctx, groupKey(group.ID),
		"name", group.Name,
		"members", members,
		"createdAt", group.CreatedAt,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to store group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	fields, err := s.client.HGetAll(ctx, groupKey(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	group := &models.Group{
		ID:   groupID,
		Name: fields["name"],
	}
	group.CreatedAt, _ = strconv.ParseInt(fields["createdAt"], 10, 64)
	if err := json.Unmarshal([]byte(fields["members"]), &group.Members); err != nil {
		return nil, fmt.Errorf("corrupt member list for group %s: %w", groupID, err)
	}
	return group, nil
}

// SetGroupMembers replaces a group's member list.
func (s *Store) SetGroupMembers(ctx context.Context, groupID string, members []string) error {
	exists, err := s.client.Exists(ctx, groupKey(groupID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	encoded, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}
	if err := s.client.HSet(ctx, groupKey(groupID), "members", encoded).Err(); err != nil {
		return fmt.Errorf("failed to store members: %w", err)
	}
	return nil
}

// AppendExpense appends an expense to the group's history list.
func (s *Store) AppendExpense(ctx context.Context, groupID string, expense *models.Expense) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	encoded, err := json.Marshal(expense)
	if err != nil {
		return fmt.Errorf("failed to encode expense: %w", err)
	}
	if err := s.client.RPush(ctx, expensesKey(groupID), encoded).Err(); err != nil {
		return fmt.Errorf("failed to append expense: %w", err)
	}
	return nil
}

// ListExpenses returns a group's expense history in insertion order.
func (s *Store) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	entries, err := s.client.LRange(ctx, expensesKey(groupID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	expenses := make([]models.Expense, 0, len(entries))
	for _, entry := range entries {
		var exp models.Expense
		if err := json.Unmarshal([]byte(entry), &exp); err != nil {
			return nil, fmt.Errorf("corrupt expense entry for group %s: %w", groupID, err)
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}
