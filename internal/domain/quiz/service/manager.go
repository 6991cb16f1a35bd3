package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
	questionsRepo "github.com/eng-practice/quizbot/internal/domain/questions/repository"
	usersRepo "github.com/eng-practice/quizbot/internal/domain/users/repository"
	usersService "github.com/eng-practice/quizbot/internal/domain/users/service"
	"github.com/google/uuid"
)

// Feedback — результат одного ответа для немедленной обратной связи
type Feedback struct {
	IsCorrect     bool
	Chosen        model.Option
	CorrectOption model.Option
	CorrectText   string
	Explanation   string
	Number        int // номер отвеченного вопроса, 1-based
	Total         int
	Completed     bool // true ровно один раз — на последнем ответе сессии
}

// Summary — итог завершенной сессии
type Summary struct {
	Kind     model.SessionKind
	Topic    string
	Score    int
	Total    int
	Accuracy float64
}

// Manager владеет активными сессиями викторины. На пользователя — не более
// одной живой сессии; все операции над сессией одного пользователя
// сериализуются персональным мьютексом, пользователи независимы.
type Manager struct {
	questions   *questionsRepo.Repository
	quota       *usersService.QuotaService
	store       usersRepo.Store
	batchSize   int
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[int64]*model.QuizSession
	// Мьютексы заводятся по одному на встреченного пользователя и не
	// удаляются: в момент удаления на мьютексе может ждать горутина, и
	// повторное создание дало бы два мьютекса одного пользователя. Рост
	// ограничен числом пользователей бота.
	locks map[int64]*sync.Mutex
}

// NewManager создает менеджер сессий. batchSize — размер сессии,
// idleTimeout — срок, после которого брошенная сессия выметается.
func NewManager(questions *questionsRepo.Repository, quota *usersService.QuotaService, store usersRepo.Store, batchSize int, idleTimeout time.Duration) *Manager {
	return &Manager{
		questions:   questions,
		quota:       quota,
		store:       store,
		batchSize:   batchSize,
		idleTimeout: idleTimeout,
		sessions:    make(map[int64]*model.QuizSession),
		locks:       make(map[int64]*sync.Mutex),
	}
}

// userLock возвращает персональный мьютекс пользователя
func (m *Manager) userLock(userID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[userID] = l
	}
	return l
}

func (m *Manager) getSession(userID int64) *model.QuizSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

func (m *Manager) setSession(userID int64, s *model.QuizSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		delete(m.sessions, userID)
	} else {
		m.sessions[userID] = s
	}
}

// StartSession переводит пользователя из Idle в Active. Для kind=daily размер
// сессии равен min(остаток квоты, batchSize); при нулевом остатке возвращает
// ErrQuotaExhausted. Живая сессия при повторном старте заменяется, о
// брошенной пишется лог.
func (m *Manager) StartSession(ctx context.Context, userID int64, kind model.SessionKind, topic string) (*model.QuizSession, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// Завершенную, но не зафиксированную сессию сначала пытаемся
	// дофиксировать: результат не должен пропасть.
	if existing := m.getSession(userID); existing != nil && existing.Completed() {
		if _, err := m.finalizeLocked(ctx, userID, existing); err != nil {
			return nil, err
		}
	}

	count := m.batchSize
	if kind == model.SessionDaily {
		remaining, err := m.quota.Remaining(ctx, userID)
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			return nil, ErrQuotaExhausted
		}
		if remaining < count {
			count = remaining
		}
	}

	if !m.questions.IsAvailable() {
		return nil, ErrContentUnavailable
	}

	selected := m.selectQuestions(count, kind, topic)
	if len(selected) == 0 {
		return nil, ErrContentUnavailable
	}

	if existing := m.getSession(userID); existing != nil {
		log.Printf("abandoning session %s (user %d, %d/%d answered): replaced by new %s session",
			existing.ID, userID, existing.Current, len(existing.Questions), kind)
	}

	now := time.Now()
	session := &model.QuizSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         kind,
		Topic:        model.NormalizeTopic(topic),
		Questions:    selected,
		StartedAt:    now,
		LastActivity: now,
	}
	m.setSession(userID, session)
	return session, nil
}

// selectQuestions собирает вопросы сессии. Тематическая сессия при нехватке
// вопросов в теме добирается из остальных тем; короткий общий пул — не
// ошибка, сессия просто будет короче.
func (m *Manager) selectQuestions(count int, kind model.SessionKind, topic string) []model.Question {
	if kind != model.SessionTopic || topic == "" {
		return m.questions.Sample(count, "")
	}

	selected := m.questions.Sample(count, topic)
	if missing := count - len(selected); missing > 0 {
		selected = append(selected, m.questions.SampleExcluding(missing, topic)...)
	}
	return selected
}

// RecordAnswer фиксирует ответ на вопрос questionIndex, сдвигает курсор и
// возвращает обратную связь. Индекс сверяется с курсором под персональным
// мьютексом: повторный тап по уже отвеченному вопросу дает ErrStaleAnswer,
// а не засчитывается следующему. Вызов без живой сессии или после ее
// завершения — ошибка использования, отличная от квотных и контентных.
func (m *Manager) RecordAnswer(userID int64, questionIndex int, chosen model.Option) (Feedback, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.getSession(userID)
	if session == nil {
		return Feedback{}, ErrNoActiveSession
	}
	if session.Completed() {
		return Feedback{}, ErrSessionCompleted
	}
	if questionIndex != session.Current {
		return Feedback{}, ErrStaleAnswer
	}
	if chosen.Index() < 0 {
		return Feedback{}, fmt.Errorf("invalid option %q", string(chosen))
	}

	question := session.Questions[session.Current]
	correct := chosen == question.Correct

	session.Answers = append(session.Answers, model.AnswerRecord{
		QuestionIndex: session.Current,
		Chosen:        chosen,
		IsCorrect:     correct,
	})
	session.Current++
	session.LastActivity = time.Now()

	return Feedback{
		IsCorrect:     correct,
		Chosen:        chosen,
		CorrectOption: question.Correct,
		CorrectText:   question.OptionText(question.Correct),
		Explanation:   question.Explanation,
		Number:        session.Current,
		Total:         len(session.Questions),
		Completed:     session.Completed(),
	}, nil
}

// CurrentQuestion возвращает текущий вопрос активной сессии вместе с его
// номером и общим количеством вопросов.
func (m *Manager) CurrentQuestion(userID int64) (model.Question, int, int, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.getSession(userID)
	if session == nil {
		return model.Question{}, 0, 0, ErrNoActiveSession
	}
	if session.Completed() {
		return model.Question{}, 0, 0, ErrSessionCompleted
	}
	return session.Questions[session.Current], session.Current + 1, len(session.Questions), nil
}

// HasActive сообщает, есть ли у пользователя живая незавершенная сессия
func (m *Manager) HasActive(userID int64) bool {
	session := m.getSession(userID)
	return session != nil && !session.Completed()
}

// Finalize фиксирует завершенную сессию: обновляет суммарные счетчики,
// списывает дневную квоту (только для daily), архивирует итог и удаляет
// сессию из памяти. При сбое записи сессия остается в памяти до успешного
// повтора — готовый результат не теряется молча.
func (m *Manager) Finalize(ctx context.Context, userID int64) (Summary, error) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.getSession(userID)
	if session == nil {
		return Summary{}, ErrNoActiveSession
	}
	if !session.Completed() {
		return Summary{}, fmt.Errorf("session %s is not completed yet", session.ID)
	}
	return m.finalizeLocked(ctx, userID, session)
}

// finalizeLocked выполняет фиксацию; персональный мьютекс должен быть взят
func (m *Manager) finalizeLocked(ctx context.Context, userID int64, session *model.QuizSession) (Summary, error) {
	correct := session.CorrectCount()
	total := len(session.Questions)

	state, err := m.store.Get(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load user state for finalize: %w", err)
	}

	state.TotalAnswered += total
	state.TotalCorrect += correct
	if session.Kind.CountsTowardQuota() {
		state.DailyCompleted += total
	}
	if err := m.store.Save(ctx, state); err != nil {
		// Сессия намеренно остается в памяти: повтор произойдет из
		// фоновой службы или при следующем обращении пользователя.
		return Summary{}, fmt.Errorf("failed to persist session results: %w", err)
	}

	archive := model.SessionArchive{
		ID:          session.ID,
		UserID:      userID,
		Kind:        session.Kind,
		Topic:       session.Topic,
		Total:       total,
		Correct:     correct,
		StartedAt:   session.StartedAt,
		CompletedAt: time.Now(),
	}
	if err := m.store.ArchiveSession(ctx, archive); err != nil {
		// История вторична по отношению к счетчикам, сбой не фатален.
		log.Printf("failed to archive session %s: %v", session.ID, err)
	}

	m.setSession(userID, nil)

	summary := Summary{
		Kind:  session.Kind,
		Topic: session.Topic,
		Score: correct,
		Total: total,
	}
	if total > 0 {
		summary.Accuracy = float64(correct) / float64(total) * 100
	}
	return summary, nil
}

// Cancel сбрасывает сессию без сохранения. Частично пройденная сессия не
// расходует квоту: списание происходит только при фиксации.
func (m *Manager) Cancel(userID int64) bool {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := m.getSession(userID)
	if session == nil {
		return false
	}
	log.Printf("session %s canceled by user %d (%d/%d answered)",
		session.ID, userID, session.Current, len(session.Questions))
	m.setSession(userID, nil)
	return true
}

// sessionUsers возвращает снимок ключей карты сессий. Под m.mu снимаются
// только ключи; поля сессий читаются исключительно под персональным
// мьютексом пользователя.
func (m *Manager) sessionUsers() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	userIDs := make([]int64, 0, len(m.sessions))
	for userID := range m.sessions {
		userIDs = append(userIDs, userID)
	}
	return userIDs
}

// SweepIdle выметает незавершенные сессии, простаивающие дольше idleTimeout.
// Завершенные, но не зафиксированные сессии не трогает — их добивает
// повтор фиксации.
func (m *Manager) SweepIdle(now time.Time) int {
	evicted := 0
	for _, userID := range m.sessionUsers() {
		lock := m.userLock(userID)
		lock.Lock()
		session := m.getSession(userID)
		if session != nil && !session.Completed() && now.Sub(session.LastActivity) > m.idleTimeout {
			log.Printf("evicting idle session %s (user %d, idle since %s)",
				session.ID, userID, session.LastActivity.Format(time.RFC3339))
			m.setSession(userID, nil)
			evicted++
		}
		lock.Unlock()
	}
	return evicted
}

// PendingUsers возвращает пользователей с завершенными, но еще не
// зафиксированными сессиями.
func (m *Manager) PendingUsers() []int64 {
	var users []int64
	for _, userID := range m.sessionUsers() {
		lock := m.userLock(userID)
		lock.Lock()
		if session := m.getSession(userID); session != nil && session.Completed() {
			users = append(users, userID)
		}
		lock.Unlock()
	}
	return users
}
