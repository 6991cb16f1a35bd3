package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
	"github.com/eng-practice/quizbot/internal/domain/users/repository"
)

// QuotaService отвечает за дневную квоту: сброс по границе суток UTC и
// подсчет остатка. Проверка сброса выполняется в начале каждой
// пользовательской операции, зависящей от квоты, а не только по таймеру —
// пользователь на границе суток должен увидеть сброс синхронно.
type QuotaService struct {
	store      repository.Store
	dailyLimit int
	now        func() time.Time // подменяется в тестах
}

// Stats — агрегированная статистика пользователя для команды /stats
type Stats struct {
	DailyCompleted int
	DailyLimit     int
	TotalAnswered  int
	TotalCorrect   int
	Accuracy       float64
}

// NewQuotaService создает сервис с явно переданным лимитом
func NewQuotaService(store repository.Store, dailyLimit int) *QuotaService {
	return &QuotaService{
		store:      store,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// DailyLimit возвращает настроенный дневной лимит
func (s *QuotaService) DailyLimit() int {
	return s.dailyLimit
}

// CheckAndReset сравнивает дату последнего сброса с текущей календарной датой
// UTC. Если даты различаются, обнуляет дневной счетчик, переносит отметку
// сброса на начало текущего дня и сохраняет запись. Возвращает актуальное
// состояние и признак того, что сброс произошел. Повторный вызов в тот же
// день ничего не меняет.
func (s *QuotaService) CheckAndReset(ctx context.Context, userID int64) (model.UserState, bool, error) {
	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return model.UserState{}, false, fmt.Errorf("failed to get user state: %w", err)
	}

	now := s.now()
	if model.SameUTCDay(state.LastReset, now) {
		return state, false, nil
	}

	state.DailyCompleted = 0
	state.LastReset = model.StartOfUTCDay(now)
	if err := s.store.Save(ctx, state); err != nil {
		return model.UserState{}, false, fmt.Errorf("failed to persist daily reset: %w", err)
	}
	log.Printf("daily quota reset for user %d", userID)
	return state, true, nil
}

// Remaining возвращает остаток дневной квоты после применения проверки сброса
func (s *QuotaService) Remaining(ctx context.Context, userID int64) (int, error) {
	state, _, err := s.CheckAndReset(ctx, userID)
	if err != nil {
		return 0, err
	}

	remaining := s.dailyLimit - state.DailyCompleted
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Register создает запись пользователя при первом обращении и обновляет
// сохраненный username.
func (s *QuotaService) Register(ctx context.Context, userID int64, username string) error {
	state, err := s.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user state: %w", err)
	}
	if state.Username == username {
		return nil
	}

	state.Username = username
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save username: %w", err)
	}
	return nil
}

// UserStats возвращает статистику пользователя после проверки сброса
func (s *QuotaService) UserStats(ctx context.Context, userID int64) (Stats, error) {
	state, _, err := s.CheckAndReset(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		DailyCompleted: state.DailyCompleted,
		DailyLimit:     s.dailyLimit,
		TotalAnswered:  state.TotalAnswered,
		TotalCorrect:   state.TotalCorrect,
		Accuracy:       state.Accuracy(),
	}, nil
}
