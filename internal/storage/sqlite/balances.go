package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

const upsertIncrement = `
INSERT INTO balances (owner, counterparty, amount_cents) VALUES (?, ?, ?)
ON CONFLICT(owner, counterparty) DO UPDATE SET amount_cents = amount_cents + excluded.amount_cents`

// Balance reads one pairwise balance from owner's perspective.
func (s *Store) Balance(ctx context.Context, owner, counterparty string) (decimal.Decimal, bool, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		"SELECT amount_cents FROM balances WHERE owner = ? AND counterparty = ?",
		owner, counterparty,
	).Scan(&cents)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get balance: %w", err)
	}
	return fromCents(cents), true, nil
}

// Balances reads all of owner's pairwise balances.
func (s *Store) Balances(ctx context.Context, owner string) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT counterparty, amount_cents FROM balances WHERE owner = ?",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var counterparty string
		var cents int64
		if err := rows.Scan(&counterparty, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[counterparty] = fromCents(cents)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// ApplyDelta increments both directions of the pair inside one transaction,
// so a concurrent reader can never observe half of a mirror update.
func (s *Store) ApplyDelta(ctx context.Context, debtor, creditor string, amount decimal.Decimal) error {
	cents := toCents(amount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertIncrement, creditor, debtor, cents); err != nil {
		return fmt.Errorf("failed to credit %s: %w", creditor, err)
	}
	if _, err := tx.ExecContext(ctx, upsertIncrement, debtor, creditor, -cents); err != nil {
		return fmt.Errorf("failed to debit %s: %w", debtor, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
