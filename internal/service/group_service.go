package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	groups storage.GroupStore
	users  storage.UserStore
}

// NewGroupService creates a GroupService with the given storage backends.
func NewGroupService(groups storage.GroupStore, users storage.UserStore) *GroupService {
	return &GroupService{groups: groups, users: users}
}

// validateUsers checks that every listed user ID exists.
func (s *GroupService) validateUsers(ctx context.Context, userIDs []string) error {
	for _, id := range userIDs {
		if _, err := s.users.GetUser(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownUser, id)
			}
			return err
		}
	}
	return nil
}

// CreateGroup creates a group with a caller-supplied ID. Every member must
// be an existing user; a taken group ID is rejected with
// storage.ErrDuplicate.
func (s *GroupService) CreateGroup(ctx context.Context, groupID, name string, members []string) (*models.Group, error) {
	if groupID == "" || name == "" || len(members) == 0 {
		return nil, fmt.Errorf("%w: groupId, groupName and members are required", ErrInvalidInput)
	}
	if err := s.validateUsers(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:        groupID,
		Name:      name,
		Members:   members,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.groups.GetGroup(ctx, groupID)
}

// AddMembers adds users to an existing group, skipping duplicates. Every
// added user must exist.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, members []string) error {
	if len(members) == 0 {
		return fmt.Errorf("%w: members must be a non-empty list", ErrInvalidInput)
	}
	if err := s.validateUsers(ctx, members); err != nil {
		return err
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	updated := group.Members
	for _, m := range members {
		if !isMember(m, updated) {
			updated = append(updated, m)
		}
	}
	if err := s.groups.SetGroupMembers(ctx, groupID, updated); err != nil {
		return err
	}

	slog.Info("members added", "group_id", groupID, "members", len(updated))
	return nil
}

// RemoveMembers removes users from an existing group. IDs not present in
// the group are ignored.
func (s *GroupService) RemoveMembers(ctx context.Context, groupID string, members []string) error {
	if len(members) == 0 {
		return fmt.Errorf("%w: members must be a non-empty list", ErrInvalidInput)
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	remove := make(map[string]bool, len(members))
	for _, m := range members {
		remove[m] = true
	}
	updated := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		if !remove[m] {
			updated = append(updated, m)
		}
	}
	if err := s.groups.SetGroupMembers(ctx, groupID, updated); err != nil {
		return err
	}

	slog.Info("members removed", "group_id", groupID, "members", len(updated))
	return nil
}
