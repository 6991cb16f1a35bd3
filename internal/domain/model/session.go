package model

import "time"

// SessionKind определяет режим сессии викторины
type SessionKind string

const (
	SessionDaily    SessionKind = "daily"    // засчитывается в дневную квоту
	SessionPractice SessionKind = "practice" // без ограничений, квоту не расходует
	SessionTopic    SessionKind = "topic"    // практика по конкретной теме
)

// CountsTowardQuota сообщает, списываются ли вопросы сессии с дневной квоты
func (k SessionKind) CountsTowardQuota() bool {
	return k == SessionDaily
}

// AnswerRecord фиксирует один данный ответ внутри сессии
type AnswerRecord struct {
	QuestionIndex int    `json:"question_index"`
	Chosen        Option `json:"chosen"`
	IsCorrect     bool   `json:"is_correct"`
}

// QuizSession — активная сессия викторины одного пользователя. Живет только
// в памяти процесса; на пользователя одновременно существует не более одной.
type QuizSession struct {
	ID           string         `json:"id"`
	UserID       int64          `json:"user_id"`
	Kind         SessionKind    `json:"kind"`
	Topic        string         `json:"topic,omitempty"` // только для SessionTopic
	Questions    []Question     `json:"questions"`       // фиксируется при создании
	Current      int            `json:"current"`         // курсор: индекс текущего вопроса
	Answers      []AnswerRecord `json:"answers"`
	StartedAt    time.Time      `json:"started_at"`
	LastActivity time.Time      `json:"last_activity"`
}

// Completed сообщает, отвечены ли все вопросы сессии
func (s *QuizSession) Completed() bool {
	return s.Current >= len(s.Questions)
}

// CorrectCount возвращает число правильных ответов в журнале сессии
func (s *QuizSession) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// SessionArchive — итог завершенной сессии для исторического хранения
type SessionArchive struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"user_id"`
	Kind        SessionKind `json:"kind"`
	Topic       string      `json:"topic,omitempty"`
	Total       int         `json:"total"`
	Correct     int         `json:"correct"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
}
