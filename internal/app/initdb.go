package app

import (
	"context"
	"fmt"
	"log"

	"github.com/eng-practice/quizbot/internal/domain/users/repository"
	"github.com/eng-practice/quizbot/internal/infra/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitStore подключает хранилище пользователей согласно конфигурации.
// Поддерживаются драйверы sqlite, postgres и memory.
func InitStore(cfg *config.Config) (repository.Store, error) {
	const op = "app.InitStore"

	ctx := context.Background()

	switch cfg.Storage.Driver {
	case "postgres":
		connConfig, err := pgxpool.ParseConfig(cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse database config: %w", op, err)
		}

		db, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create database pool: %w", op, err)
		}

		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
		}

		store, err := repository.NewPostgresStore(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Println("Database connected successfully!")
		return store, nil

	case "sqlite":
		store, err := repository.NewSQLiteStore(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return store, nil

	case "memory":
		return repository.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}
