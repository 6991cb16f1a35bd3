package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

// DeliveryChannel — способность доставлять сообщения пользователю.
// Реализуется транспортом (Telegram); в тестах подменяется фейком.
// Тексты ошибок для пользователя никогда не содержат внутренних деталей.
type DeliveryChannel interface {
	DeliverQuestion(userID int64, q model.Question, number, total int) error
	DeliverFeedback(userID int64, fb Feedback) error
	DeliverSummary(userID int64, sum Summary) error
	DeliverError(userID int64, message string) error
}

// Orchestrator — тонкий цикл вопрос-ответ-фидбек поверх Manager. Своего
// состояния не держит; существует, чтобы Manager не зависел от механики
// доставки и тестировался с фейковым каналом.
type Orchestrator struct {
	manager  *Manager
	delivery DeliveryChannel
}

// NewOrchestrator создает оркестратор над менеджером сессий
func NewOrchestrator(manager *Manager, delivery DeliveryChannel) *Orchestrator {
	return &Orchestrator{manager: manager, delivery: delivery}
}

// Manager открывает доступ к менеджеру сессий для обработчиков команд
func (o *Orchestrator) Manager() *Manager {
	return o.manager
}

// Start создает сессию и доставляет первый вопрос. Сентинельные ошибки
// (квота, контент) возвращаются вызывающему: обработчик команды решает,
// предлагать ли практику или сообщить о недоступности.
func (o *Orchestrator) Start(ctx context.Context, userID int64, kind model.SessionKind, topic string) error {
	if _, err := o.manager.StartSession(ctx, userID, kind, topic); err != nil {
		return err
	}
	return o.deliverCurrent(userID)
}

// Resume повторно доставляет текущий вопрос живой сессии. Возвращает false,
// если живой сессии нет.
func (o *Orchestrator) Resume(userID int64) (bool, error) {
	if !o.manager.HasActive(userID) {
		return false, nil
	}
	if err := o.deliverCurrent(userID); err != nil {
		return false, err
	}
	return true, nil
}

// SubmitAnswer обрабатывает одно событие ответа: фиксирует его, доставляет
// фидбек и затем либо следующий вопрос, либо итог сессии. questionIndex —
// индекс вопроса из callback кнопки; несовпадение с курсором (двойной тап)
// игнорируется без сообщения пользователю.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, userID int64, questionIndex int, chosen model.Option) error {
	fb, err := o.manager.RecordAnswer(userID, questionIndex, chosen)
	switch {
	case errors.Is(err, ErrStaleAnswer):
		log.Printf("stale answer tap from user %d: question %d", userID, questionIndex)
		return nil
	case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrSessionCompleted):
		log.Printf("answer from user %d without live session: %v", userID, err)
		return o.delivery.DeliverError(userID, "You don't have an active quiz right now. Use /practice to start one.")
	case err != nil:
		log.Printf("failed to record answer for user %d: %v", userID, err)
		return o.delivery.DeliverError(userID, "Something went wrong. Please try again.")
	}

	if err := o.delivery.DeliverFeedback(userID, fb); err != nil {
		return fmt.Errorf("failed to deliver feedback: %w", err)
	}

	if !fb.Completed {
		return o.deliverCurrent(userID)
	}

	summary, err := o.manager.Finalize(ctx, userID)
	if err != nil {
		// Сессия удержана менеджером, фиксация будет повторена фоном.
		log.Printf("failed to finalize session for user %d: %v", userID, err)
		return o.delivery.DeliverError(userID, "Quiz finished! Recording your result is taking a moment, your score is safe.")
	}
	if err := o.delivery.DeliverSummary(userID, summary); err != nil {
		return fmt.Errorf("failed to deliver summary: %w", err)
	}
	return nil
}

// Cancel сбрасывает активную сессию пользователя
func (o *Orchestrator) Cancel(userID int64) bool {
	return o.manager.Cancel(userID)
}

// RetryPending повторяет фиксацию завершенных сессий, которые не удалось
// сохранить, и доставляет пользователю отложенный итог.
func (o *Orchestrator) RetryPending(ctx context.Context) {
	for _, userID := range o.manager.PendingUsers() {
		summary, err := o.manager.Finalize(ctx, userID)
		if err != nil {
			log.Printf("retrying finalize for user %d failed: %v", userID, err)
			continue
		}
		if err := o.delivery.DeliverSummary(userID, summary); err != nil {
			log.Printf("failed to deliver delayed summary to user %d: %v", userID, err)
		}
	}
}

// deliverCurrent отправляет текущий вопрос активной сессии
func (o *Orchestrator) deliverCurrent(userID int64) error {
	question, number, total, err := o.manager.CurrentQuestion(userID)
	if err != nil {
		return fmt.Errorf("failed to get current question: %w", err)
	}
	if err := o.delivery.DeliverQuestion(userID, question, number, total); err != nil {
		return fmt.Errorf("failed to deliver question: %w", err)
	}
	return nil
}
