package topics_handler

import (
	questionsRepo "github.com/eng-practice/quizbot/internal/domain/questions/repository"
	"gopkg.in/telebot.v4"
)

// TopicsHandler структура для обработки команды /topics
type TopicsHandler struct {
	questions *questionsRepo.Repository
}

// NewTopicsHandler возвращает структуру обработчика
func NewTopicsHandler(questions *questionsRepo.Repository) *TopicsHandler {
	return &TopicsHandler{questions: questions}
}

// Handle показывает клавиатуру со списком доступных тем. Имя темы
// целиком уходит в callback с префиксом "topic_".
func (h *TopicsHandler) Handle(c telebot.Context) error {
	topics := h.questions.ListTopics()
	if len(topics) == 0 {
		return c.Send("😔 Questions are unavailable right now, please try again later.")
	}

	keyboard := make([][]telebot.InlineButton, 0, len(topics)+1)
	for _, topic := range topics {
		keyboard = append(keyboard, []telebot.InlineButton{{
			Text: "📖 " + topic,
			Data: "topic_" + topic,
		}})
	}
	keyboard = append(keyboard, []telebot.InlineButton{{
		Text: "🎲 Surprise me",
		Data: "topic_random",
	}})

	return c.Send("📚 *Pick a topic to practice:*", &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: &telebot.ReplyMarkup{InlineKeyboard: keyboard},
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TopicsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
