package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS groups (
            key TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            owner_id TEXT NOT NULL,
            private BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS group_members (
            group_key TEXT NOT NULL REFERENCES groups(key) ON DELETE CASCADE,
            user_id TEXT NOT NULL,
            PRIMARY KEY(group_key, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS rooms (
            key TEXT PRIMARY KEY,
            group_key TEXT NOT NULL REFERENCES groups(key) ON DELETE CASCADE,
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS records (
            id TEXT NOT NULL,
            room_key TEXT NOT NULL REFERENCES rooms(key) ON DELETE CASCADE,
            group_key TEXT NOT NULL,
            author_id TEXT NOT NULL,
            kind TEXT NOT NULL,
            game_type TEXT NOT NULL DEFAULT '',
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            PRIMARY KEY(room_key, id)
        );`,
		`CREATE INDEX IF NOT EXISTS records_room_created_idx ON records (room_key, created_at);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
