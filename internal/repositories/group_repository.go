package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gamechat-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, ownerID string, name string, memberIDs []string) (models.Group, error)
	EnsureDefaultGroup(ctx context.Context, ownerID string) (models.Group, models.Room, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)
	CountGroupsForUser(ctx context.Context, userID string) (int, error)
	IsMember(ctx context.Context, groupKey string, userID string) (bool, error)
	GetGroup(ctx context.Context, groupKey string) (models.Group, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates a group and its members atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, ownerID string, name string, memberIDs []string) (models.Group, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var group models.Group
	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (key, name, owner_id, private) VALUES ($1, $2, $3, FALSE) RETURNING key, name, owner_id, private, created_at`, uuid.NewString(), name, ownerID).
		Scan(&group.Key, &group.Name, &group.OwnerID, &group.Private, &group.CreatedAt); err != nil {
		return models.Group{}, err
	}

	// ensure owner present and dedupe members
	memberSet := map[string]struct{}{ownerID: {}}
	for _, id := range memberIDs {
		memberSet[id] = struct{}{}
	}
	ids := make([]string, 0, len(memberSet))
	for id := range memberSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_key, user_id) VALUES ($1, $2)`, group.Key, id); err != nil {
			return models.Group{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// EnsureDefaultGroup returns the account's private default group and its
// room, creating both on first use. Safe to call repeatedly.
func (r *GroupRepo) EnsureDefaultGroup(ctx context.Context, ownerID string) (models.Group, models.Room, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT key, name, owner_id, private, created_at FROM groups WHERE owner_id=$1 AND private = TRUE`, ownerID)
	if err == nil {
		var room models.Room
		if err := r.db.GetContext(ctx, &room, `SELECT key, group_key, name, created_at FROM rooms WHERE group_key=$1 ORDER BY created_at ASC LIMIT 1`, group.Key); err != nil {
			return models.Group{}, models.Room{}, err
		}
		return group, room, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, models.Room{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, models.Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (key, name, owner_id, private) VALUES ($1, 'Home', $2, TRUE) RETURNING key, name, owner_id, private, created_at`, uuid.NewString(), ownerID).
		Scan(&group.Key, &group.Name, &group.OwnerID, &group.Private, &group.CreatedAt); err != nil {
		return models.Group{}, models.Room{}, err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_key, user_id) VALUES ($1, $2)`, group.Key, ownerID); err != nil {
		return models.Group{}, models.Room{}, err
	}

	var room models.Room
	if err = tx.QueryRowxContext(ctx, `INSERT INTO rooms (key, group_key, name) VALUES ($1, $2, 'Home') RETURNING key, group_key, name, created_at`, uuid.NewString(), group.Key).
		Scan(&room.Key, &room.GroupKey, &room.Name, &room.CreatedAt); err != nil {
		return models.Group{}, models.Room{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, models.Room{}, err
	}
	return group, room, nil
}

// ListGroupsForUser returns non-private groups that include the user.
func (r *GroupRepo) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.SelectContext(ctx, &groups, `SELECT g.key, g.name, g.owner_id, g.private, g.created_at FROM groups g INNER JOIN group_members gm ON gm.group_key = g.key WHERE gm.user_id=$1 AND g.private = FALSE ORDER BY g.created_at DESC`, userID)
	return groups, err
}

// CountGroupsForUser counts joined non-private groups.
func (r *GroupRepo) CountGroupsForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM groups g INNER JOIN group_members gm ON gm.group_key = g.key WHERE gm.user_id=$1 AND g.private = FALSE`, userID)
	return count, err
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupKey string, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_key=$1 AND user_id=$2)`, groupKey, userID)
	return exists, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupKey string) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `SELECT key, name, owner_id, private, created_at FROM groups WHERE key=$1`, groupKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}
