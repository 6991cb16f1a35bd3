package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

// Dir — локальный резервный источник: каталог с CSV-файлами, по одному на
// тему. Имя файла становится именем темы. Ожидаемые столбцы:
// Question, Option A, Option B, Option C, Option D, Correct Answer, Explanation.
type Dir struct {
	path string
}

// NewDir создает источник над каталогом с файлами вопросов
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Name() string { return "csv" }

func (d *Dir) FetchAll(ctx context.Context) (model.QuestionSet, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions directory %s: %w", d.path, err)
	}

	set := make(model.QuestionSet)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		topic := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(d.path, entry.Name())
		if err := d.loadFile(path, topic, set); err != nil {
			// Битый файл не фатален для остальных тем.
			log.Printf("csv: skipping %s: %v", entry.Name(), err)
		}
	}

	if set.Total() == 0 {
		return nil, fmt.Errorf("no questions found in %s", d.path)
	}
	return set, nil
}

// loadFile читает один файл темы и добавляет его валидные строки в набор
func (d *Dir) loadFile(path, topic string, set model.QuestionSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // длину строк проверяем сами

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"question", "option_a", "option_b", "option_c", "option_d", "correct_answer"} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("missing column %q", required)
		}
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", line, err)
		}

		q, err := questionFromCSVRow(row, cols, topic)
		if err != nil {
			// Строка с невалидным ответом отбрасывается, файл продолжаем.
			log.Printf("csv: dropping %s row %d: %v", filepath.Base(path), line, err)
			continue
		}
		set.Add(q)
	}
	return nil
}

// columnIndex строит отображение нормализованного имени столбца на его индекс
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.ReplaceAll(name, " ", "_")
		cols[name] = i
	}
	return cols
}

func questionFromCSVRow(row []string, cols map[string]int, topic string) (model.Question, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	correct, ok := model.ParseOption(field("correct_answer"))
	if !ok {
		return model.Question{}, fmt.Errorf("correct answer %q is not one of A-D", field("correct_answer"))
	}

	q := model.Question{
		Topic: topic,
		Text:  field("question"),
		Options: [4]string{
			field("option_a"),
			field("option_b"),
			field("option_c"),
			field("option_d"),
		},
		Correct:     correct,
		Explanation: field("explanation"),
	}
	if err := q.Validate(); err != nil {
		return model.Question{}, err
	}
	return q, nil
}
