package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// CreateGroup persists a new group with its members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("group %s: %w", group.ID, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, member,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group and its members by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		group.Members = append(group.Members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return group, nil
}

// SetGroupMembers replaces a group's member list.
func (s *Store) SetGroupMembers(ctx context.Context, groupID string, members []string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM groups WHERE id = ?", groupID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	for _, member := range members {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
			groupID, member,
		); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
