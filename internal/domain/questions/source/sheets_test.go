package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestSheetsServer(t *testing.T, status int, values [][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if err := json.NewEncoder(w).Encode(valuesResponse{Values: values}); err != nil {
			t.Errorf("Не удалось закодировать ответ: %v", err)
		}
	}))
}

func newTestFetcher(serverURL string) *SheetsFetcher {
	fetcher := NewSheetsFetcher("sheet123", "key456", 5*time.Second)
	fetcher.baseURL = serverURL
	return fetcher
}

// TestSheetsFetcher_FetchAll проверяет разбор ответа values API:
// заголовок пропускается, валидные строки группируются по темам.
func TestSheetsFetcher_FetchAll(t *testing.T) {
	values := [][]string{
		{"Topic", "Question", "Option A", "Option B", "Option C", "Option D", "Correct Answer", "Explanation"},
		{"grammar", "Pick the verb", "run", "blue", "slowly", "cat", "A", "Run is a verb"},
		{"vocabulary", "Synonym of big", "large", "tiny", "narrow", "dim", "a"},
	}
	server := newTestSheetsServer(t, http.StatusOK, values)
	defer server.Close()

	set, err := newTestFetcher(server.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll вернул ошибку: %v", err)
	}

	if set.Total() != 2 {
		t.Errorf("Ожидалось 2 вопроса, получено %d", set.Total())
	}
	if len(set["Grammar"]) != 1 || len(set["Vocabulary"]) != 1 {
		t.Errorf("Вопросы разложены по темам неверно: %v", set)
	}

	q := set["Vocabulary"][0]
	if q.Explanation != "" {
		t.Errorf("Пояснение должно быть пустым для короткой строки, получено %q", q.Explanation)
	}
}

// TestSheetsFetcher_DropsInvalidRows проверяет, что строки с невалидным
// ответом отбрасываются, а остальные выживают.
func TestSheetsFetcher_DropsInvalidRows(t *testing.T) {
	values := [][]string{
		{"Topic", "Question", "Option A", "Option B", "Option C", "Option D", "Correct Answer", "Explanation"},
		{"grammar", "Good row", "a", "b", "c", "d", "B", ""},
		{"grammar", "Bad answer", "a", "b", "c", "d", "E", ""},
		{"grammar", "Short row", "a", "b"},
	}
	server := newTestSheetsServer(t, http.StatusOK, values)
	defer server.Close()

	set, err := newTestFetcher(server.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll вернул ошибку: %v", err)
	}
	if set.Total() != 1 {
		t.Errorf("Ожидался 1 выживший вопрос, получено %d", set.Total())
	}
}

// TestSheetsFetcher_HTTPError проверяет, что не-200 ответ превращается
// в ошибку для перехода на резервный источник.
func TestSheetsFetcher_HTTPError(t *testing.T) {
	server := newTestSheetsServer(t, http.StatusForbidden, nil)
	defer server.Close()

	if _, err := newTestFetcher(server.URL).FetchAll(context.Background()); err == nil {
		t.Fatal("Ожидалась ошибка для ответа 403, получен nil")
	}
}

// TestSheetsFetcher_NotConfigured проверяет отказ при пустых реквизитах
func TestSheetsFetcher_NotConfigured(t *testing.T) {
	fetcher := NewSheetsFetcher("", "", time.Second)
	if _, err := fetcher.FetchAll(context.Background()); err == nil {
		t.Fatal("Ожидалась ошибка для ненастроенного источника, получен nil")
	}
}

// TestFallback проверяет переход на резервный источник при сбое основного
func TestFallback(t *testing.T) {
	server := newTestSheetsServer(t, http.StatusInternalServerError, nil)
	defer server.Close()

	dir := t.TempDir()
	writeTestCSV(t, dir, "grammar.csv",
		"Question,Option A,Option B,Option C,Option D,Correct Answer\n"+
			"Good row,a,b,c,d,A\n")

	fallback := NewFallback(newTestFetcher(server.URL), NewDir(dir))
	set, err := fallback.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("Fallback должен был переключиться на резервный источник: %v", err)
	}
	if set.Total() != 1 {
		t.Errorf("Ожидался 1 вопрос из резервного источника, получено %d", set.Total())
	}
}

// TestFallback_BothFail проверяет, что при отказе обоих источников
// возвращается ошибка.
func TestFallback_BothFail(t *testing.T) {
	server := newTestSheetsServer(t, http.StatusInternalServerError, nil)
	defer server.Close()

	fallback := NewFallback(newTestFetcher(server.URL), NewDir(t.TempDir()))
	if _, err := fallback.FetchAll(context.Background()); err == nil {
		t.Fatal("Ожидалась ошибка при отказе обоих источников, получен nil")
	}
}
