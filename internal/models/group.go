package models

import "time"

// Group is a collection of members and rooms.
type Group struct {
	Key       string    `db:"key" json:"group_key"`
	Name      string    `db:"name" json:"name"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Private   bool      `db:"private" json:"private"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Room is a single chat/game space inside a group.
type Room struct {
	Key       string    `db:"key" json:"room_key"`
	GroupKey  string    `db:"group_key" json:"group_key"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
