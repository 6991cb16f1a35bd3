package service

import (
	"context"
	"testing"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
	"github.com/eng-practice/quizbot/internal/domain/users/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService создает сервис над памятью с фиксированными часами
func newTestService(t *testing.T, limit int, now time.Time) (*QuotaService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewQuotaService(store, limit)
	svc.now = func() time.Time { return now }
	return svc, store
}

// seedState записывает состояние пользователя напрямую в хранилище
func seedState(t *testing.T, store *repository.MemoryStore, state model.UserState) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), state))
}

func TestCheckAndReset_NewDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 5,
		LastReset:      time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		TotalAnswered:  20,
		TotalCorrect:   15,
	})

	state, didReset, err := svc.CheckAndReset(ctx, 42)
	require.NoError(t, err)
	assert.True(t, didReset)
	assert.Equal(t, 0, state.DailyCompleted)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), state.LastReset)

	// Суммарные счетчики сброс не трогает
	assert.Equal(t, 20, state.TotalAnswered)
	assert.Equal(t, 15, state.TotalCorrect)

	// Сброс сохранен, а не только возвращен
	persisted, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, persisted.DailyCompleted)
}

func TestCheckAndReset_SameDayIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 3,
		LastReset:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	state, didReset, err := svc.CheckAndReset(ctx, 42)
	require.NoError(t, err)
	assert.False(t, didReset)
	assert.Equal(t, 3, state.DailyCompleted)
}

func TestCheckAndReset_CrossMonthBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 0, 0, 1, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 5,
		LastReset:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	})

	_, didReset, err := svc.CheckAndReset(ctx, 42)
	require.NoError(t, err)
	assert.True(t, didReset)
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 3,
		LastReset:      model.StartOfUTCDay(now),
	})

	remaining, err := svc.Remaining(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRemaining_ClampedAtZero(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	// Счетчик мог уйти выше лимита после снижения лимита в конфигурации
	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 7,
		LastReset:      model.StartOfUTCDay(now),
	})

	remaining, err := svc.Remaining(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestRemaining_FreshUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, 5, time.Now().UTC())

	remaining, err := svc.Remaining(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestRegister_UpdatesUsername(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, 5, time.Now().UTC())

	require.NoError(t, svc.Register(ctx, 42, "alice"))

	state, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", state.Username)

	// Смена ника перезаписывает сохраненный
	require.NoError(t, svc.Register(ctx, 42, "alice_new"))
	state, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice_new", state.Username)
}

func TestUserStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, 5, now)

	seedState(t, store, model.UserState{
		UserID:         42,
		DailyCompleted: 2,
		LastReset:      model.StartOfUTCDay(now),
		TotalAnswered:  40,
		TotalCorrect:   30,
	})

	stats, err := svc.UserStats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DailyCompleted)
	assert.Equal(t, 5, stats.DailyLimit)
	assert.Equal(t, 40, stats.TotalAnswered)
	assert.Equal(t, 30, stats.TotalCorrect)
	assert.InDelta(t, 75.0, stats.Accuracy, 0.01)
}
