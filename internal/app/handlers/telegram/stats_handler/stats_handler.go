package stats_handler

import (
	"context"
	"fmt"
	"log"

	usersService "github.com/eng-practice/quizbot/internal/domain/users/service"
	"gopkg.in/telebot.v4"
)

// StatsHandler структура для обработки команды /stats
type StatsHandler struct {
	quotaService *usersService.QuotaService
}

// NewStatsHandler возвращает структуру обработчика
func NewStatsHandler(quotaService *usersService.QuotaService) *StatsHandler {
	return &StatsHandler{quotaService: quotaService}
}

// Handle отправляет пользователю его статистику. Перед показом счетчик дня
// актуализируется, поэтому после полуночи UTC прогресс отображается нулевым.
func (h *StatsHandler) Handle(c telebot.Context) error {
	telegramID := c.Sender().ID
	ctx := context.Background()

	stats, err := h.quotaService.UserStats(ctx, telegramID)
	if err != nil {
		log.Printf("failed to load stats for user %d: %v", telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}

	message := fmt.Sprintf(
		"📊 *Your progress*\n\n"+
			"📅 Today: %d/%d questions\n"+
			"📝 Total answered: %d\n"+
			"✅ Total correct: %d\n"+
			"🎯 Accuracy: %.1f%%",
		stats.DailyCompleted, stats.DailyLimit,
		stats.TotalAnswered, stats.TotalCorrect, stats.Accuracy,
	)

	return c.Send(message, &telebot.SendOptions{
		ParseMode: telebot.ModeMarkdown,
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StatsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
