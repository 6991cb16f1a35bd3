package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Не удалось записать тестовый файл %s: %v", name, err)
	}
}

// TestDir_FetchAll проверяет загрузку каталога: тема берется из имени файла,
// валидные строки попадают в набор.
func TestDir_FetchAll(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, "grammar.csv",
		"Question,Option A,Option B,Option C,Option D,Correct Answer,Explanation\n"+
			"Pick the verb,run,blue,slowly,cat,A,Run is a verb\n"+
			"Pick the noun,quick,dog,never,very,B,\n")
	writeTestCSV(t, dir, "vocabulary.csv",
		"Question,Option A,Option B,Option C,Option D,Correct Answer\n"+
			"Synonym of big,large,tiny,narrow,dim,A\n")

	set, err := NewDir(dir).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll вернул ошибку: %v", err)
	}

	if set.Total() != 3 {
		t.Errorf("Ожидалось 3 вопроса, получено %d", set.Total())
	}
	if len(set["Grammar"]) != 2 {
		t.Errorf("Ожидалось 2 вопроса темы Grammar, получено %d", len(set["Grammar"]))
	}
	if len(set["Vocabulary"]) != 1 {
		t.Errorf("Ожидался 1 вопрос темы Vocabulary, получено %d", len(set["Vocabulary"]))
	}

	q := set["Grammar"][0]
	if q.Correct.Index() < 0 {
		t.Errorf("Правильный ответ должен быть распознан, получено %q", string(q.Correct))
	}
}

// TestDir_DropsInvalidRows проверяет, что строка с невалидным правильным
// ответом отбрасывается, а остальные строки файла выживают.
func TestDir_DropsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, "grammar.csv",
		"Question,Option A,Option B,Option C,Option D,Correct Answer\n"+
			"Good row,a,b,c,d,C\n"+
			"Bad answer,a,b,c,d,X\n"+
			"Empty option,a,,c,d,A\n")

	set, err := NewDir(dir).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll вернул ошибку: %v", err)
	}
	if set.Total() != 1 {
		t.Errorf("Ожидался 1 выживший вопрос, получено %d", set.Total())
	}
}

// TestDir_SkipsBrokenFile проверяет, что файл без обязательных столбцов
// пропускается, не ломая загрузку остальных тем.
func TestDir_SkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeTestCSV(t, dir, "broken.csv", "Foo,Bar\n1,2\n")
	writeTestCSV(t, dir, "grammar.csv",
		"Question,Option A,Option B,Option C,Option D,Correct Answer\n"+
			"Good row,a,b,c,d,A\n")

	set, err := NewDir(dir).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll вернул ошибку: %v", err)
	}
	if set.Total() != 1 {
		t.Errorf("Ожидался 1 вопрос из валидного файла, получено %d", set.Total())
	}
	if _, ok := set["Broken"]; ok {
		t.Error("Битый файл не должен порождать тему")
	}
}

// TestDir_EmptyDirectory проверяет, что пустой каталог считается ошибкой
func TestDir_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewDir(dir).FetchAll(context.Background()); err == nil {
		t.Fatal("Ожидалась ошибка для каталога без вопросов, получен nil")
	}
}
