package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvyhq/divvy/internal/models"
)

// AppendExpense appends an expense and its shares to the group's history.
func (s *Store) AppendExpense(ctx context.Context, groupID string, expense *models.Expense) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (group_id, description, amount_cents, paid_by, created_at) VALUES (?, ?, ?, ?, ?)",
		groupID, expense.Description, toCents(expense.Amount), expense.PaidBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	expenseID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get expense id: %w", err)
	}

	for _, share := range expense.SplitBetween {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, percentage) VALUES (?, ?, ?)",
			expenseID, share.UserID, share.Percentage.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a group's expense history in insertion order.
func (s *Store) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount_cents, paid_by, created_at FROM expenses WHERE group_id = ? ORDER BY id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	var ids []int64
	for rows.Next() {
		var id int64
		var cents int64
		var exp models.Expense
		if err := rows.Scan(&id, &exp.Description, &cents, &exp.PaidBy, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Amount = fromCents(cents)
		expenses = append(expenses, exp)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i, id := range ids {
		shareRows, err := s.db.QueryContext(ctx,
			"SELECT user_id, percentage FROM expense_shares WHERE expense_id = ? ORDER BY user_id",
			id,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get shares: %w", err)
		}
		for shareRows.Next() {
			var share models.Share
			var pct string
			if err := shareRows.Scan(&share.UserID, &pct); err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("failed to scan share: %w", err)
			}
			share.Percentage, err = decimal.NewFromString(pct)
			if err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("failed to parse percentage: %w", err)
			}
			expenses[i].SplitBetween = append(expenses[i].SplitBetween, share)
		}
		shareRows.Close()
		if err := shareRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate shares: %w", err)
		}
	}

	return expenses, nil
}
