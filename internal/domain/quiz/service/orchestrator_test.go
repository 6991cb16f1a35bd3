package service

import (
	"context"
	"strings"
	"testing"

	"github.com/eng-practice/quizbot/internal/domain/model"
	usersRepo "github.com/eng-practice/quizbot/internal/domain/users/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDelivery записывает все доставленные сообщения
type fakeDelivery struct {
	questions []model.Question
	numbers   []int
	feedbacks []Feedback
	summaries []Summary
	errors    []string
}

func (f *fakeDelivery) DeliverQuestion(userID int64, q model.Question, number, total int) error {
	f.questions = append(f.questions, q)
	f.numbers = append(f.numbers, number)
	return nil
}

func (f *fakeDelivery) DeliverFeedback(userID int64, fb Feedback) error {
	f.feedbacks = append(f.feedbacks, fb)
	return nil
}

func (f *fakeDelivery) DeliverSummary(userID int64, sum Summary) error {
	f.summaries = append(f.summaries, sum)
	return nil
}

func (f *fakeDelivery) DeliverError(userID int64, message string) error {
	f.errors = append(f.errors, message)
	return nil
}

func newTestOrchestrator(t *testing.T, store usersRepo.Store) (*Orchestrator, *fakeDelivery) {
	t.Helper()
	delivery := &fakeDelivery{}
	return NewOrchestrator(newTestManager(t, store), delivery), delivery
}

func TestOrchestrator_StartDeliversFirstQuestion(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))

	require.Len(t, delivery.questions, 1)
	assert.Equal(t, 1, delivery.numbers[0])
}

func TestOrchestrator_AnswerAdvancesToNextQuestion(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))
	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionA))

	// Фидбек доставлен, следом пришел второй вопрос
	require.Len(t, delivery.feedbacks, 1)
	require.Len(t, delivery.questions, 2)
	assert.Equal(t, 2, delivery.numbers[1])
	assert.Empty(t, delivery.summaries)
}

func TestOrchestrator_CompletionDeliversSummary(t *testing.T) {
	ctx := context.Background()
	store := usersRepo.NewMemoryStore()
	orch, delivery := newTestOrchestrator(t, store)

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))
	for i := 0; i < 5; i++ {
		require.NoError(t, orch.SubmitAnswer(ctx, 42, i, model.OptionB))
	}

	require.Len(t, delivery.feedbacks, 5)
	assert.True(t, delivery.feedbacks[4].Completed)
	require.Len(t, delivery.summaries, 1)
	assert.Equal(t, 5, delivery.summaries[0].Score)

	// После итога сессии больше нет
	assert.False(t, orch.Manager().HasActive(42))
}

// TestOrchestrator_DoubleTapRecordsOnce проверяет, что повторный тап по
// кнопке того же вопроса не порождает ни второго фидбека, ни сообщения
// об ошибке: ответ засчитывается ровно один раз.
func TestOrchestrator_DoubleTapRecordsOnce(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))
	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionB))
	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionB))

	require.Len(t, delivery.feedbacks, 1)
	require.Len(t, delivery.questions, 2)
	assert.Empty(t, delivery.errors)

	// Сессия стоит на втором вопросе, двойной тап курсор не сдвинул
	_, number, _, err := orch.Manager().CurrentQuestion(42)
	require.NoError(t, err)
	assert.Equal(t, 2, number)
}

func TestOrchestrator_AnswerWithoutSession(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionA))

	require.Len(t, delivery.errors, 1)
	assert.Contains(t, delivery.errors[0], "/practice")
}

func TestOrchestrator_Resume(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	resumed, err := orch.Resume(42)
	require.NoError(t, err)
	assert.False(t, resumed)

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))
	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionA))

	resumed, err = orch.Resume(42)
	require.NoError(t, err)
	assert.True(t, resumed)

	// Повторно доставлен именно текущий, второй вопрос
	require.Len(t, delivery.questions, 3)
	assert.Equal(t, 2, delivery.numbers[2])
	assert.Equal(t, delivery.questions[1].Text, delivery.questions[2].Text)
}

func TestOrchestrator_PersistFailureMessageHidesDetails(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: usersRepo.NewMemoryStore()}
	orch, delivery := newTestOrchestrator(t, store)

	require.NoError(t, orch.Start(ctx, 42, model.SessionDaily, ""))
	store.failSave = true
	for i := 0; i < 5; i++ {
		require.NoError(t, orch.SubmitAnswer(ctx, 42, i, model.OptionB))
	}

	// Итога нет, но пользователь получил успокаивающее сообщение без
	// внутренних деталей.
	assert.Empty(t, delivery.summaries)
	require.Len(t, delivery.errors, 1)
	assert.NotContains(t, strings.ToLower(delivery.errors[0]), "storage")
	assert.NotContains(t, delivery.errors[0], "error")

	// Хранилище ожило: повтор доставляет отложенный итог
	store.failSave = false
	orch.RetryPending(ctx)
	require.Len(t, delivery.summaries, 1)
	assert.Equal(t, 5, delivery.summaries[0].Score)
	assert.Empty(t, orch.Manager().PendingUsers())
}

func TestOrchestrator_CancelThenAnswer(t *testing.T) {
	ctx := context.Background()
	orch, delivery := newTestOrchestrator(t, usersRepo.NewMemoryStore())

	require.NoError(t, orch.Start(ctx, 42, model.SessionPractice, ""))
	assert.True(t, orch.Cancel(42))

	require.NoError(t, orch.SubmitAnswer(ctx, 42, 0, model.OptionA))
	require.Len(t, delivery.errors, 1)
}
