package service

import "errors"

// Таксономия ошибок квиза. Обработчики различают их через errors.Is и
// переводят в пользовательские сообщения; внутренний текст ошибок
// пользователю не отправляется.
var (
	// ErrContentUnavailable — ни удаленный, ни локальный источник не дали вопросов.
	ErrContentUnavailable = errors.New("no questions available")
	// ErrQuotaExhausted — дневной лимит исчерпан. Не сбой, а штатная ветка:
	// пользователю предлагается практика.
	ErrQuotaExhausted = errors.New("daily quota exhausted")
	// ErrNoActiveSession — ответ пришел без активной сессии.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionCompleted — ответ пришел в уже завершенную сессию.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrStaleAnswer — индекс вопроса в ответе не совпал с курсором сессии:
	// повторный тап по кнопке уже отвеченного вопроса. Молча игнорируется.
	ErrStaleAnswer = errors.New("answer does not match the current question")
)
