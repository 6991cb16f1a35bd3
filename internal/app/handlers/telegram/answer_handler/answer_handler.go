package answer_handler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/eng-practice/quizbot/internal/domain/model"
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// AnswerHandler структура для обработки нажатий на варианты ответа
type AnswerHandler struct {
	orchestrator *quizService.Orchestrator
}

// NewAnswerHandler возвращает структуру обработчика
func NewAnswerHandler(orchestrator *quizService.Orchestrator) *AnswerHandler {
	return &AnswerHandler{orchestrator: orchestrator}
}

// Handle разбирает callback вида "answer_<индекс вопроса>_<буква варианта>"
// и передает выбор в оркестратор. Нажатие на кнопку уже отвеченного вопроса
// игнорируется, чтобы двойной тап не засчитался дважды.
func (h *AnswerHandler) Handle(c telebot.Context) error {
	telegramID := c.Sender().ID
	callbackData := c.Callback().Data

	// Очищаем callbackData от нестандартных символов
	cleanedData := strings.TrimSpace(callbackData)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	if !strings.HasPrefix(cleanedData, "answer_") {
		return nil
	}

	parts := strings.Split(cleanedData, "_")
	if len(parts) != 3 {
		return fmt.Errorf("invalid callback data: %s", callbackData)
	}

	questionIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid question index in callback: %w", err)
	}

	chosen, ok := model.ParseOption(parts[2])
	if !ok {
		return fmt.Errorf("invalid option in callback: %s", parts[2])
	}

	// Кнопка могла пережить вопрос: индекс из callback сверяется с курсором
	// сессии внутри менеджера, под персональным мьютексом пользователя.
	ctx := context.Background()
	if err := h.orchestrator.SubmitAnswer(ctx, telegramID, questionIndex, chosen); err != nil {
		log.Printf("failed to submit answer for user %d: %v", telegramID, err)
		return c.Send("Something went wrong, please try again later.")
	}
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
