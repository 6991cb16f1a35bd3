package repository

import (
	"context"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

// Store определяет интерфейс хранилища состояния пользователей.
// Реализации: Postgres (pgx), SQLite (modernc) и in-memory.
type Store interface {
	// Get возвращает состояние пользователя, создавая запись с нулевыми
	// счетчиками при первом обращении.
	Get(ctx context.Context, userID int64) (model.UserState, error)
	// Save сохраняет состояние целиком (upsert).
	Save(ctx context.Context, state model.UserState) error
	// ArchiveSession записывает итог завершенной сессии в историю.
	ArchiveSession(ctx context.Context, archive model.SessionArchive) error
	// Close освобождает ресурсы хранилища.
	Close() error
}
