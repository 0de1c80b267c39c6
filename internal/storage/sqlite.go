package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps ownership links in a single SQLite file
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// One writer; avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("SQLite store initialized")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_assistant (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			assistant_id TEXT NOT NULL,
			linked_at TIMESTAMP
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_assistant ON user_assistant(user_id, assistant_id);`,
		`CREATE INDEX IF NOT EXISTS idx_user_assistant_assistant ON user_assistant(assistant_id);`,
		`CREATE TABLE IF NOT EXISTS user_phone (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			phone_id TEXT NOT NULL,
			linked_at TIMESTAMP
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_phone ON user_phone(user_id, phone_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) LinkAssistant(ctx context.Context, userID, assistantID string) error {
	if userID == "" || assistantID == "" {
		return ErrMissingID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_assistant (user_id, assistant_id, linked_at) VALUES (?, ?, ?)`,
		userID, assistantID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to link assistant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UnlinkAssistant(ctx context.Context, assistantID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_assistant WHERE assistant_id = ?`, assistantID); err != nil {
		return fmt.Errorf("failed to unlink assistant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAssistantIDs(ctx context.Context, userID string) ([]string, error) {
	return s.listIDs(ctx, `SELECT assistant_id FROM user_assistant WHERE user_id = ? ORDER BY assistant_id`, userID)
}

func (s *SQLiteStore) LinkPhone(ctx context.Context, userID, phoneID string) error {
	if userID == "" || phoneID == "" {
		return ErrMissingID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_phone (user_id, phone_id, linked_at) VALUES (?, ?, ?)`,
		userID, phoneID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to link phone: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPhoneIDs(ctx context.Context, userID string) ([]string, error) {
	return s.listIDs(ctx, `SELECT phone_id FROM user_phone WHERE user_id = ? ORDER BY phone_id`, userID)
}

func (s *SQLiteStore) listIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) TruncateAll(ctx context.Context) error {
	for _, table := range []string{"user_assistant", "user_phone"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		s.logger.Info().Str("table", table).Msg("table truncated")
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
