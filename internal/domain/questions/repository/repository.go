package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/eng-practice/quizbot/internal/domain/model"
	"github.com/eng-practice/quizbot/internal/domain/questions/source"
)

// Repository владеет загруженным набором вопросов. Набор кэшируется на все
// время жизни процесса; перезагрузка происходит только по явному вызову Load
// (фоновая служба), никогда — по запросу пользователя. Читатели всегда видят
// либо старый, либо полностью замененный набор.
type Repository struct {
	src source.Source

	mu  sync.RWMutex
	set model.QuestionSet // nil до первой успешной загрузки
}

// New создает репозиторий над источником вопросов
func New(src source.Source) *Repository {
	return &Repository{src: src}
}

// Load загружает набор из источника и атомарно подменяет кэш. При ошибке
// прежний набор остается в силе.
func (r *Repository) Load(ctx context.Context) error {
	set, err := r.src.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	return nil
}

// IsAvailable сообщает, держит ли репозиторий непустой набор вопросов
func (r *Repository) IsAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set != nil && r.set.Total() > 0
}

// ListTopics возвращает отсортированный список тем. Список стабилен между
// вызовами до следующего Load.
func (r *Repository) ListTopics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]string, 0, len(r.set))
	for topic := range r.set {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Sample возвращает count случайных вопросов без повторов. При пустом topic
// выборка идет по всем темам. Если вопросов меньше, чем count, возвращаются
// все имеющиеся — это штатное поведение, а не ошибка.
func (r *Repository) Sample(count int, topic string) []model.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pool []model.Question
	if topic != "" {
		pool = r.set[model.NormalizeTopic(topic)]
	} else {
		for _, qs := range r.set {
			pool = append(pool, qs...)
		}
	}
	return pick(pool, count)
}

// SampleExcluding выбирает count вопросов из всех тем, кроме указанной.
// Используется для добора тематической сессии, когда в самой теме
// вопросов не хватает.
func (r *Repository) SampleExcluding(count int, excludeTopic string) []model.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exclude := model.NormalizeTopic(excludeTopic)
	var pool []model.Question
	for topic, qs := range r.set {
		if topic == exclude {
			continue
		}
		pool = append(pool, qs...)
	}
	return pick(pool, count)
}

// pick перемешивает копию пула и берет первые count элементов
func pick(pool []model.Question, count int) []model.Question {
	if len(pool) == 0 || count <= 0 {
		return nil
	}

	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
