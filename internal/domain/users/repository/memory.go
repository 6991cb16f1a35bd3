package repository

import (
	"context"
	"sync"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

// MemoryStore — in-memory реализация Store. Используется в тестах и при
// storage.driver = "memory" (данные теряются при рестарте).
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]model.UserState
	archives []model.SessionArchive
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]model.UserState)}
}

func (m *MemoryStore) Get(ctx context.Context, userID int64) (model.UserState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.users[userID]
	if !ok {
		state = model.NewUserState(userID, time.Now())
		m.users[userID] = state
	}
	return state, nil
}

func (m *MemoryStore) Save(ctx context.Context, state model.UserState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state.UpdatedAt = time.Now().UTC()
	m.users[state.UserID] = state
	return nil
}

func (m *MemoryStore) ArchiveSession(ctx context.Context, archive model.SessionArchive) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.archives = append(m.archives, archive)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Archives возвращает копию истории сессий (для тестов)
func (m *MemoryStore) Archives() []model.SessionArchive {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.SessionArchive, len(m.archives))
	copy(out, m.archives)
	return out
}
