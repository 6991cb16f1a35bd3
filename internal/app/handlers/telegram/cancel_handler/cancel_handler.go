package cancel_handler

import (
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// CancelHandler структура для обработки команды /cancel
type CancelHandler struct {
	orchestrator *quizService.Orchestrator
}

// NewCancelHandler возвращает структуру обработчика
func NewCancelHandler(orchestrator *quizService.Orchestrator) *CancelHandler {
	return &CancelHandler{orchestrator: orchestrator}
}

// Handle сбрасывает текущую сессию. Отмененная сессия квоту не расходует.
func (h *CancelHandler) Handle(c telebot.Context) error {
	if h.orchestrator.Cancel(c.Sender().ID) {
		return c.Send("🚫 Quiz canceled. It won't count toward your daily quota. " +
			"Use /practice whenever you're ready to try again.")
	}
	return c.Send("You don't have an active quiz right now. Use /practice to start one.")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CancelHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
