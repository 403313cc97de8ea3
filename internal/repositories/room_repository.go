package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gamechat-service/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts room persistence.
type RoomRepository interface {
	CreateRoom(ctx context.Context, groupKey string, name string) (models.Room, error)
	ListRooms(ctx context.Context, groupKey string) ([]models.Room, error)
	GetRoom(ctx context.Context, roomKey string) (models.Room, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// CreateRoom adds a room to a group.
func (r *RoomRepo) CreateRoom(ctx context.Context, groupKey string, name string) (models.Room, error) {
	var room models.Room
	err := r.db.QueryRowxContext(ctx, `INSERT INTO rooms (key, group_key, name) VALUES ($1, $2, $3) RETURNING key, group_key, name, created_at`, uuid.NewString(), groupKey, name).
		Scan(&room.Key, &room.GroupKey, &room.Name, &room.CreatedAt)
	return room, err
}

// ListRooms returns the group's rooms, oldest first.
func (r *RoomRepo) ListRooms(ctx context.Context, groupKey string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms, `SELECT key, group_key, name, created_at FROM rooms WHERE group_key=$1 ORDER BY created_at ASC`, groupKey)
	return rooms, err
}

// GetRoom fetches a single room.
func (r *RoomRepo) GetRoom(ctx context.Context, roomKey string) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT key, group_key, name, created_at FROM rooms WHERE key=$1`, roomKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}
