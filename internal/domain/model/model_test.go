package model

import (
	"testing"
	"time"
)

// TestSameUTCDay проверяет сравнение календарных дат по UTC,
// включая границу полуночи и перелом месяца.
func TestSameUTCDay(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "одно утро",
			a:    time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 15, 21, 30, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "через полночь",
			a:    time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
			b:    time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC),
			want: false,
		},
		{
			name: "перелом месяца",
			a:    time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "тот же момент в другом поясе",
			a:    time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 16, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameUTCDay(tc.a, tc.b); got != tc.want {
				t.Errorf("SameUTCDay(%v, %v) = %v, ожидалось %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestStartOfUTCDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 18, 45, 12, 99, time.FixedZone("MSK", 3*3600))
	got := StartOfUTCDay(in)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfUTCDay = %v, ожидалось %v", got, want)
	}
}

func TestNormalizeTopic(t *testing.T) {
	cases := map[string]string{
		"  GRAMMAR ":    "Grammar",
		"vocabulary":    "Vocabulary",
		"Phrasal Verbs": "Phrasal verbs",
		"":              "",
		"   ":           "",
	}
	for in, want := range cases {
		if got := NormalizeTopic(in); got != want {
			t.Errorf("NormalizeTopic(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestQuestionValidate(t *testing.T) {
	valid := Question{
		Topic:   "grammar",
		Text:    "Pick the verb",
		Options: [4]string{"run", "blue", "slowly", "cat"},
		Correct: OptionA,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Валидный вопрос отвергнут: %v", err)
	}

	noOption := valid
	noOption.Options[2] = " "
	if err := noOption.Validate(); err == nil {
		t.Error("Вопрос с пустым вариантом должен отвергаться")
	}

	badCorrect := valid
	badCorrect.Correct = "E"
	if err := badCorrect.Validate(); err == nil {
		t.Error("Вопрос с ответом вне A-D должен отвергаться")
	}
}

func TestSessionCompleted(t *testing.T) {
	session := QuizSession{
		Questions: []Question{{Text: "q1"}, {Text: "q2"}},
	}
	if session.Completed() {
		t.Error("Свежая сессия не должна считаться завершенной")
	}
	session.Current = 2
	if !session.Completed() {
		t.Error("Сессия с курсором за последним вопросом должна быть завершена")
	}
}
