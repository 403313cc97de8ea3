package models

import "time"

// RecordKind distinguishes chat messages from game experiences.
type RecordKind string

const (
	RecordKindMessage    RecordKind = "message"
	RecordKindExperience RecordKind = "experience"
)

// Record is a persisted, timestamped unit of room content.
// CreatedAt is assigned once at creation and never mutated; ID is unique
// within its room.
type Record struct {
	ID        string     `db:"id" json:"id"`
	RoomKey   string     `db:"room_key" json:"room_key"`
	GroupKey  string     `db:"group_key" json:"group_key"`
	AuthorID  string     `db:"author_id" json:"author_id"`
	Kind      RecordKind `db:"kind" json:"kind"`
	GameType  string     `db:"game_type" json:"game_type,omitempty"`
	Content   string     `db:"content" json:"content"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// RecordEvent is broadcast through websockets and mirrored to AMQP.
type RecordEvent struct {
	Type     string  `json:"type"`
	Record   *Record `json:"record,omitempty"`
	RecordID string  `json:"record_id,omitempty"`
}

// Record event types.
const (
	EventRecordAdded   = "record_added"
	EventRecordChanged = "record_changed"
	EventRecordRemoved = "record_removed"
	EventRecordMoved   = "record_moved"
)
