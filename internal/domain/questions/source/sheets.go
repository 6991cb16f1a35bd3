package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// SheetsFetcher читает вопросы из Google-таблицы через values API
// (столбцы A:H — Topic, Question, Option A..D, Correct Answer, Explanation).
// Любая ошибка сети, авторизации или разбора возвращается вызывающему;
// решение о переходе на резервный источник принимает Fallback.
type SheetsFetcher struct {
	client  *http.Client
	baseURL string
	sheetID string
	apiKey  string
}

// NewSheetsFetcher создает клиент с ограниченным таймаутом запроса
func NewSheetsFetcher(sheetID, apiKey string, timeout time.Duration) *SheetsFetcher {
	return &SheetsFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultSheetsBaseURL,
		sheetID: sheetID,
		apiKey:  apiKey,
	}
}

func (s *SheetsFetcher) Name() string { return "sheets" }

// valuesResponse — ответ values API
type valuesResponse struct {
	Values [][]string `json:"values"`
}

func (s *SheetsFetcher) FetchAll(ctx context.Context) (model.QuestionSet, error) {
	if s.sheetID == "" || s.apiKey == "" {
		return nil, fmt.Errorf("sheets source is not configured")
	}

	reqURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/A:H?key=%s",
		s.baseURL, url.PathEscape(s.sheetID), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets returned HTTP %d", resp.StatusCode)
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode sheets response: %w", err)
	}
	if len(payload.Values) < 2 {
		return nil, fmt.Errorf("sheet %s contains no question rows", s.sheetID)
	}

	set := make(model.QuestionSet)
	// Первая строка — заголовок, данные начинаются со второй.
	for i, row := range payload.Values[1:] {
		q, err := questionFromRow(row)
		if err != nil {
			log.Printf("sheets: dropping row %d: %v", i+2, err)
			continue
		}
		set.Add(q)
	}

	if set.Total() == 0 {
		return nil, fmt.Errorf("sheet %s yielded no valid questions", s.sheetID)
	}
	return set, nil
}

// questionFromRow собирает вопрос из строки таблицы
// Topic, Question, Option A, Option B, Option C, Option D, Correct Answer, Explanation
func questionFromRow(row []string) (model.Question, error) {
	if len(row) < 7 {
		return model.Question{}, fmt.Errorf("insufficient columns (%d)", len(row))
	}
	// Дополняем до восьми столбцов: Explanation опционален.
	for len(row) < 8 {
		row = append(row, "")
	}

	correct, ok := model.ParseOption(row[6])
	if !ok {
		return model.Question{}, fmt.Errorf("correct answer %q is not one of A-D", row[6])
	}

	q := model.Question{
		Topic:       row[0],
		Text:        row[1],
		Options:     [4]string{row[2], row[3], row[4], row[5]},
		Correct:     correct,
		Explanation: row[7],
	}
	if err := q.Validate(); err != nil {
		return model.Question{}, err
	}
	return q, nil
}
