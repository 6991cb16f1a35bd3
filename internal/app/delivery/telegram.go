package delivery

import (
	"fmt"
	"strings"

	"github.com/eng-practice/quizbot/internal/domain/model"
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
	"gopkg.in/telebot.v4"
)

// Telegram реализует quizService.DeliveryChannel поверх telebot
type Telegram struct {
	bot *telebot.Bot
}

// NewTelegram создает канал доставки над готовым ботом
func NewTelegram(bot *telebot.Bot) *Telegram {
	return &Telegram{bot: bot}
}

// DeliverQuestion отправляет вопрос с инлайн-кнопками вариантов A-D.
// В callback кнопки зашиты индекс вопроса и буква варианта.
func (t *Telegram) DeliverQuestion(userID int64, q model.Question, number, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "❓ *Question %d/%d*\n📚 *Topic:* %s\n\n%s", number, total, q.Topic, q.Text)

	markup := t.bot.NewMarkup()
	rows := make([]telebot.Row, 0, len(model.Options))
	for _, opt := range model.Options {
		btn := markup.Data(fmt.Sprintf("%s. %s", opt, q.OptionText(opt)),
			fmt.Sprintf("answer_%d_%s", number-1, opt))
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)

	_, err := t.bot.Send(&telebot.User{ID: userID}, b.String(), &telebot.SendOptions{
		ParseMode:   telebot.ModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("failed to send question: %w", err)
	}
	return nil
}

// DeliverFeedback отправляет результат ответа с пояснением
func (t *Telegram) DeliverFeedback(userID int64, fb quizService.Feedback) error {
	var b strings.Builder
	if fb.IsCorrect {
		b.WriteString("✅ *Correct!*\n")
	} else {
		fmt.Fprintf(&b, "❌ *Incorrect*\nThe correct answer is: *%s. %s*\n",
			fb.CorrectOption, fb.CorrectText)
	}
	if fb.Explanation != "" {
		fmt.Fprintf(&b, "\n💡 *Explanation:* %s\n", fb.Explanation)
	}

	_, err := t.bot.Send(&telebot.User{ID: userID}, b.String(), &telebot.SendOptions{
		ParseMode: telebot.ModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send feedback: %w", err)
	}
	return nil
}

// DeliverSummary отправляет итог завершенной сессии
func (t *Telegram) DeliverSummary(userID int64, sum quizService.Summary) error {
	var b strings.Builder
	b.WriteString("🎉 *Quiz completed!*\n")
	fmt.Fprintf(&b, "📊 *Score:* %d/%d\n", sum.Score, sum.Total)
	fmt.Fprintf(&b, "🎯 *Accuracy:* %.1f%%\n\n", sum.Accuracy)
	if sum.Kind == model.SessionDaily {
		b.WriteString("🌟 Daily quiz done! Come back tomorrow for more.\n")
		b.WriteString("💪 Want to keep going? Use /practice for extra questions!")
	} else {
		b.WriteString("💪 Great practice! Use /practice to start another round!")
	}

	_, err := t.bot.Send(&telebot.User{ID: userID}, b.String(), &telebot.SendOptions{
		ParseMode: telebot.ModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send summary: %w", err)
	}
	return nil
}

// DeliverError отправляет пользовательское сообщение об ошибке.
// Внутренние детали сюда не попадают.
func (t *Telegram) DeliverError(userID int64, message string) error {
	_, err := t.bot.Send(&telebot.User{ID: userID}, message)
	if err != nil {
		return fmt.Errorf("failed to send error message: %w", err)
	}
	return nil
}
