package model

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Option идентифицирует один из четырех вариантов ответа
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Options перечисляет варианты в порядке отображения
var Options = []Option{OptionA, OptionB, OptionC, OptionD}

// ParseOption нормализует строку в Option ("a", " B " и т.д.)
func ParseOption(s string) (Option, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return OptionA, true
	case "B":
		return OptionB, true
	case "C":
		return OptionC, true
	case "D":
		return OptionD, true
	}
	return "", false
}

// Index возвращает позицию варианта (A=0 .. D=3)
func (o Option) Index() int {
	switch o {
	case OptionA:
		return 0
	case OptionB:
		return 1
	case OptionC:
		return 2
	case OptionD:
		return 3
	}
	return -1
}

// Question представляет один вопрос викторины с четырьмя вариантами ответа
type Question struct {
	Topic       string    `json:"topic"`
	Text        string    `json:"text"`
	Options     [4]string `json:"options"` // тексты вариантов в порядке A, B, C, D
	Correct     Option    `json:"correct"`
	Explanation string    `json:"explanation,omitempty"`
}

// OptionText возвращает текст указанного варианта
func (q Question) OptionText(o Option) string {
	idx := o.Index()
	if idx < 0 {
		return ""
	}
	return q.Options[idx]
}

// Validate проверяет, что вопрос пригоден к выдаче: есть текст, все четыре
// варианта заполнены и правильный ответ ссылается на существующий вариант.
// Невалидные вопросы отбрасываются на этапе загрузки, а не при ответе.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("empty question text")
	}
	if strings.TrimSpace(q.Topic) == "" {
		return fmt.Errorf("empty topic")
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("empty option %s", Options[i])
		}
	}
	if q.Correct.Index() < 0 {
		return fmt.Errorf("correct answer %q is not one of A-D", string(q.Correct))
	}
	return nil
}

// NormalizeTopic приводит имя темы к каноническому виду: обрезанные пробелы,
// нижний регистр, заглавная первая буква. Темы уникальны по этому ключу.
func NormalizeTopic(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// QuestionSet — отображение имени темы на упорядоченный список вопросов.
// Строится заново при каждой (пере)загрузке и после этого не мутируется.
type QuestionSet map[string][]Question

// Add добавляет вопрос в набор под нормализованным именем темы
func (s QuestionSet) Add(q Question) {
	topic := NormalizeTopic(q.Topic)
	q.Topic = topic
	s[topic] = append(s[topic], q)
}

// Total возвращает общее количество вопросов во всех темах
func (s QuestionSet) Total() int {
	n := 0
	for _, qs := range s {
		n += len(qs)
	}
	return n
}
