package practice_handler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/eng-practice/quizbot/internal/domain/model"
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
	usersService "github.com/eng-practice/quizbot/internal/domain/users/service"
	"gopkg.in/telebot.v4"
)

// Кнопки предлагаются, когда дневная квота исчерпана
var (
	BtnStartPractice = telebot.InlineButton{Unique: "start_practice", Text: "🚀 Start Practice Session"}
	BtnChooseTopic   = telebot.InlineButton{Unique: "choose_topic", Text: "📚 Choose Topic"}
)

// PracticeHandler структура для обработки команды /practice
type PracticeHandler struct {
	orchestrator *quizService.Orchestrator
	quotaService *usersService.QuotaService
}

// NewPracticeHandler возвращает структуру обработчика
func NewPracticeHandler(orchestrator *quizService.Orchestrator, quotaService *usersService.QuotaService) *PracticeHandler {
	return &PracticeHandler{
		orchestrator: orchestrator,
		quotaService: quotaService,
	}
}

// Handle запускает дневную сессию. Если у пользователя уже есть живая
// сессия, вместо новой повторно отправляется текущий вопрос.
func (h *PracticeHandler) Handle(c telebot.Context) error {
	telegramID := c.Sender().ID
	ctx := context.Background()

	resumed, err := h.orchestrator.Resume(telegramID)
	if err != nil {
		log.Printf("failed to resume session for user %d: %v", telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}
	if resumed {
		return c.Send("You already have a quiz in progress, here is your question again. "+
			"Use /cancel to abandon it.", &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}

	remaining, err := h.quotaService.Remaining(ctx, telegramID)
	if err != nil {
		log.Printf("failed to check quota for user %d: %v", telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}

	if remaining == 0 {
		return h.offerExtraPractice(c)
	}

	intro := fmt.Sprintf("📝 *Daily quiz time!*\nYou have %d question(s) left today. Good luck!",
		remaining)
	if err := c.Send(intro, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return err
	}

	return h.startSession(c, model.SessionDaily, "")
}

// StartExtraPractice обрабатывает кнопку внеквотной тренировки
func (h *PracticeHandler) StartExtraPractice(c telebot.Context) error {
	if err := c.Send("💪 *Extra practice session!*\nThese questions don't count toward your "+
		"daily quota, just pure practice.", &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return err
	}
	return h.startSession(c, model.SessionPractice, "")
}

// StartTopicSession запускает тематическую сессию по выбранной теме
func (h *PracticeHandler) StartTopicSession(c telebot.Context, topic string) error {
	if err := c.Send(fmt.Sprintf("📚 *Topic session: %s*\nLet's focus on this one. Good luck!",
		model.NormalizeTopic(topic)), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return err
	}
	return h.startSession(c, model.SessionTopic, topic)
}

func (h *PracticeHandler) startSession(c telebot.Context, kind model.SessionKind, topic string) error {
	telegramID := c.Sender().ID
	ctx := context.Background()

	err := h.orchestrator.Start(ctx, telegramID, kind, topic)
	switch {
	case errors.Is(err, quizService.ErrQuotaExhausted):
		return h.offerExtraPractice(c)
	case errors.Is(err, quizService.ErrContentUnavailable):
		return c.Send("😔 Questions are unavailable right now, please try again later.")
	case err != nil:
		log.Printf("failed to start %s session for user %d: %v", kind, telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}
	return nil
}

func (h *PracticeHandler) offerExtraPractice(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			{BtnStartPractice},
			{BtnChooseTopic},
		},
	}
	return c.Send("🌟 You've finished your daily quiz for today, come back tomorrow!\n\n"+
		"Want more practice right now? Extra sessions don't count toward your daily quota.",
		&telebot.SendOptions{ReplyMarkup: markup})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *PracticeHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
