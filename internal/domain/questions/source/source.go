package source

import (
	"context"
	"fmt"
	"log"

	"github.com/eng-practice/quizbot/internal/domain/model"
)

// Source поставляет полный набор вопросов. Реализации: Google Sheets (remote),
// каталог CSV-файлов (local) и Fallback, комбинирующий первые две.
type Source interface {
	// FetchAll возвращает непустой набор вопросов либо ошибку.
	FetchAll(ctx context.Context) (model.QuestionSet, error)
	// Name идентифицирует источник в логах.
	Name() string
}

// Fallback пробует основной источник и при любой его ошибке прозрачно
// переходит к резервному. Сам факт перехода фиксируется только в логе,
// до пользователя он не доходит.
type Fallback struct {
	primary   Source
	secondary Source
}

// NewFallback создает комбинированный источник primary -> secondary
func NewFallback(primary, secondary Source) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Name() string {
	return fmt.Sprintf("%s->%s", f.primary.Name(), f.secondary.Name())
}

func (f *Fallback) FetchAll(ctx context.Context) (model.QuestionSet, error) {
	set, err := f.primary.FetchAll(ctx)
	if err == nil {
		return set, nil
	}
	log.Printf("source %s failed (%v), falling back to %s", f.primary.Name(), err, f.secondary.Name())

	set, ferr := f.secondary.FetchAll(ctx)
	if ferr != nil {
		return nil, fmt.Errorf("both sources failed: %s: %v; %s: %w", f.primary.Name(), err, f.secondary.Name(), ferr)
	}
	return set, nil
}
