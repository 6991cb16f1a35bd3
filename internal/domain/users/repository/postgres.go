package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	daily_completed INTEGER NOT NULL DEFAULT 0,
	last_reset TIMESTAMPTZ NOT NULL,
	total_answered INTEGER NOT NULL DEFAULT 0,
	total_correct INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_sessions (
	id TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(user_id),
	kind TEXT NOT NULL,
	topic TEXT NOT NULL DEFAULT '',
	total INTEGER NOT NULL,
	correct INTEGER NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore — реализация Store поверх пула pgx
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore оборачивает готовый пул и гарантирует наличие схемы
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure postgres schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID int64) (model.UserState, error) {
	var state model.UserState
	err := s.db.QueryRow(ctx, `
		SELECT user_id, username, daily_completed, last_reset, total_answered, total_correct, created_at, updated_at
		FROM users WHERE user_id = $1`, userID).
		Scan(&state.UserID, &state.Username, &state.DailyCompleted, &state.LastReset,
			&state.TotalAnswered, &state.TotalCorrect, &state.CreatedAt, &state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		state = model.NewUserState(userID, time.Now())
		if err := s.Save(ctx, state); err != nil {
			return model.UserState{}, fmt.Errorf("failed to create user %d: %w", userID, err)
		}
		return state, nil
	}
	if err != nil {
		return model.UserState{}, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return state, nil
}

func (s *PostgresStore) Save(ctx context.Context, state model.UserState) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (user_id, username, daily_completed, last_reset, total_answered, total_correct, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			daily_completed = EXCLUDED.daily_completed,
			last_reset = EXCLUDED.last_reset,
			total_answered = EXCLUDED.total_answered,
			total_correct = EXCLUDED.total_correct,
			updated_at = NOW()`,
		state.UserID, state.Username, state.DailyCompleted, state.LastReset.UTC(),
		state.TotalAnswered, state.TotalCorrect, state.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save user %d: %w", state.UserID, err)
	}
	return nil
}

func (s *PostgresStore) ArchiveSession(ctx context.Context, archive model.SessionArchive) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO quiz_sessions (id, user_id, kind, topic, total, correct, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		archive.ID, archive.UserID, string(archive.Kind), archive.Topic,
		archive.Total, archive.Correct, archive.StartedAt.UTC(), archive.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to archive session %s: %w", archive.ID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
