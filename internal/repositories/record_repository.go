package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gamechat-service/internal/models"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordRepository defines interactions for room records.
type RecordRepository interface {
	CreateRecord(ctx context.Context, room models.Room, authorID string, kind models.RecordKind, gameType, content string) (models.Record, error)
	ListRoomRecords(ctx context.Context, roomKey string) ([]models.Record, error)
	GetRecord(ctx context.Context, roomKey, recordID string) (models.Record, error)
	DeleteRecord(ctx context.Context, roomKey, recordID, authorID string) error
	CountExperiences(ctx context.Context, roomKey, gameType string) (int, error)
	GetLatestExperience(ctx context.Context, roomKey, gameType string) (models.Record, error)
}

// RecordRepo is a sqlx-backed repository.
type RecordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo constructs RecordRepo.
func NewRecordRepo(db *sqlx.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// CreateRecord stores a record with a fresh push key.
func (r *RecordRepo) CreateRecord(ctx context.Context, room models.Room, authorID string, kind models.RecordKind, gameType, content string) (models.Record, error) {
	var rec models.Record
	err := r.db.QueryRowxContext(ctx, `INSERT INTO records (id, room_key, group_key, author_id, kind, game_type, content) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, room_key, group_key, author_id, kind, game_type, content, created_at`,
		uuid.NewString(), room.Key, room.GroupKey, authorID, kind, gameType, content).
		Scan(&rec.ID, &rec.RoomKey, &rec.GroupKey, &rec.AuthorID, &rec.Kind, &rec.GameType, &rec.Content, &rec.CreatedAt)
	return rec, err
}

// ListRoomRecords returns the room's records ordered by creation time.
func (r *RecordRepo) ListRoomRecords(ctx context.Context, roomKey string) ([]models.Record, error) {
	var recs []models.Record
	err := r.db.SelectContext(ctx, &recs, `SELECT id, room_key, group_key, author_id, kind, game_type, content, created_at FROM records WHERE room_key=$1 ORDER BY created_at ASC, id ASC`, roomKey)
	return recs, err
}

// GetRecord retrieves a single record.
func (r *RecordRepo) GetRecord(ctx context.Context, roomKey, recordID string) (models.Record, error) {
	var rec models.Record
	err := r.db.GetContext(ctx, &rec, `SELECT id, room_key, group_key, author_id, kind, game_type, content, created_at FROM records WHERE room_key=$1 AND id=$2`, roomKey, recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	return rec, err
}

// DeleteRecord removes a record; only the author may delete.
func (r *RecordRepo) DeleteRecord(ctx context.Context, roomKey, recordID, authorID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE room_key=$1 AND id=$2 AND author_id=$3`, roomKey, recordID, authorID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountExperiences counts experiences of a game type in a room.
func (r *RecordRepo) CountExperiences(ctx context.Context, roomKey, gameType string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM records WHERE room_key=$1 AND kind='experience' AND game_type=$2`, roomKey, gameType)
	return count, err
}

// GetLatestExperience fetches the newest experience of a game type.
func (r *RecordRepo) GetLatestExperience(ctx context.Context, roomKey, gameType string) (models.Record, error) {
	var rec models.Record
	err := r.db.GetContext(ctx, &rec, `SELECT id, room_key, group_key, author_id, kind, game_type, content, created_at FROM records WHERE room_key=$1 AND kind='experience' AND game_type=$2 ORDER BY created_at DESC LIMIT 1`, roomKey, gameType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	return rec, err
}
