package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
	_ "modernc.org/sqlite" // driver: sqlite
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	daily_completed INTEGER NOT NULL DEFAULT 0,
	last_reset TEXT NOT NULL,
	total_answered INTEGER NOT NULL DEFAULT 0,
	total_correct INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_sessions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(user_id),
	kind TEXT NOT NULL,
	topic TEXT NOT NULL DEFAULT '',
	total INTEGER NOT NULL,
	correct INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	completed_at TEXT NOT NULL
);
`

// SQLiteStore — файловая реализация Store поверх modernc.org/sqlite.
// Хранилище по умолчанию для однопроцессного развертывания.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore открывает базу и гарантирует наличие схемы
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "file:quizbot.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (model.UserState, error) {
	var (
		state                           model.UserState
		lastReset, createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, daily_completed, last_reset, total_answered, total_correct, created_at, updated_at
		FROM users WHERE user_id = ?`, userID).
		Scan(&state.UserID, &state.Username, &state.DailyCompleted, &lastReset,
			&state.TotalAnswered, &state.TotalCorrect, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		state = model.NewUserState(userID, time.Now())
		if err := s.Save(ctx, state); err != nil {
			return model.UserState{}, fmt.Errorf("failed to create user %d: %w", userID, err)
		}
		return state, nil
	}
	if err != nil {
		return model.UserState{}, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if state.LastReset, err = time.Parse(time.RFC3339, lastReset); err != nil {
		return model.UserState{}, fmt.Errorf("failed to parse last_reset for user %d: %w", userID, err)
	}
	if state.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return model.UserState{}, fmt.Errorf("failed to parse created_at for user %d: %w", userID, err)
	}
	if state.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return model.UserState{}, fmt.Errorf("failed to parse updated_at for user %d: %w", userID, err)
	}
	return state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, state model.UserState) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, daily_completed, last_reset, total_answered, total_correct, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			daily_completed = excluded.daily_completed,
			last_reset = excluded.last_reset,
			total_answered = excluded.total_answered,
			total_correct = excluded.total_correct,
			updated_at = excluded.updated_at`,
		state.UserID, state.Username, state.DailyCompleted,
		state.LastReset.UTC().Format(time.RFC3339),
		state.TotalAnswered, state.TotalCorrect,
		state.CreatedAt.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save user %d: %w", state.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) ArchiveSession(ctx context.Context, archive model.SessionArchive) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO quiz_sessions (id, user_id, kind, topic, total, correct, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		archive.ID, archive.UserID, string(archive.Kind), archive.Topic,
		archive.Total, archive.Correct,
		archive.StartedAt.UTC().Format(time.RFC3339),
		archive.CompletedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to archive session %s: %w", archive.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
