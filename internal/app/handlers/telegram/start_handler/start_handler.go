package start_handler

import (
	"context"
	"fmt"
	"log"

	usersService "github.com/eng-practice/quizbot/internal/domain/users/service"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	quotaService *usersService.QuotaService
	onPractice   telebot.HandlerFunc // переход по диплинку t.me/bot?start=practice
	onStats      telebot.HandlerFunc // переход по диплинку t.me/bot?start=stats
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(quotaService *usersService.QuotaService, onPractice, onStats telebot.HandlerFunc) *StartHandler {
	return &StartHandler{
		quotaService: quotaService,
		onPractice:   onPractice,
		onStats:      onStats,
	}
}

// Handle метод, который будет использоваться для обработки команды /start
func (h *StartHandler) Handle(c telebot.Context) error {
	telegramID := c.Sender().ID
	username := c.Sender().Username
	firstName := c.Sender().FirstName

	ctx := context.Background()

	// Регистрируем пользователя при первом обращении
	if err := h.quotaService.Register(ctx, telegramID, username); err != nil {
		log.Printf("failed to register user %d: %v", telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}

	// Диплинки t.me/<bot>?start=<payload> ведут сразу в нужный сценарий
	switch c.Message().Payload {
	case "practice":
		if h.onPractice != nil {
			return h.onPractice(c)
		}
	case "stats":
		if h.onStats != nil {
			return h.onStats(c)
		}
	}

	greeting := "there"
	if firstName != "" {
		greeting = firstName
	}

	message := fmt.Sprintf(
		"👋 Hi %s! Welcome to the English Practice Bot.\n\n"+
			"Every day you get *%d questions* to sharpen your English. Answer them, "+
			"get instant feedback, and track your progress.\n\n"+
			"📝 /practice — start today's quiz\n"+
			"📚 /topics — practice a specific topic\n"+
			"📊 /stats — see your progress\n"+
			"🚫 /cancel — abandon the current quiz",
		greeting, h.quotaService.DailyLimit(),
	)

	return c.Send(message, &telebot.SendOptions{
		ParseMode: telebot.ModeMarkdown,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
