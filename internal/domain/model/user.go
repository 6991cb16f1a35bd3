package model

import "time"

// UserState хранит персональные счетчики пользователя. Запись создается при
// первом обращении и никогда не удаляется (нужна для статистики).
type UserState struct {
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username,omitempty"`
	DailyCompleted int       `json:"daily_completed"` // вопросов засчитано в дневную квоту
	LastReset      time.Time `json:"last_reset"`      // начало UTC-дня последнего сброса
	TotalAnswered  int       `json:"total_answered"`
	TotalCorrect   int       `json:"total_correct"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUserState создает запись с нулевыми счетчиками и сбросом,
// привязанным к началу текущего UTC-дня.
func NewUserState(userID int64, now time.Time) UserState {
	return UserState{
		UserID:    userID,
		LastReset: StartOfUTCDay(now),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Accuracy возвращает долю правильных ответов в процентах
func (u UserState) Accuracy() float64 {
	if u.TotalAnswered == 0 {
		return 0
	}
	return float64(u.TotalCorrect) / float64(u.TotalAnswered) * 100
}

// StartOfUTCDay усекает момент времени до полуночи UTC
func StartOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameUTCDay сообщает, относятся ли два момента к одному календарному дню UTC
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
