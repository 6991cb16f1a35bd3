package app

import (
	"context"
	"log"
	"time"

	questionsRepo "github.com/eng-practice/quizbot/internal/domain/questions/repository"
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
)

// sweepPeriod задает шаг фоновой уборки сессий
const sweepPeriod = time.Minute

// RunHousekeeping крутит фоновые циклы до закрытия stop: раз в минуту
// выметает простаивающие сессии и добивает незафиксированные результаты,
// раз в reloadInterval перезагружает вопросы из источника.
func RunHousekeeping(
	stop <-chan struct{},
	manager *quizService.Manager,
	orchestrator *quizService.Orchestrator,
	questions *questionsRepo.Repository,
	reloadInterval time.Duration,
) {
	sweep := time.NewTicker(sweepPeriod)
	defer sweep.Stop()

	reload := time.NewTicker(reloadInterval)
	defer reload.Stop()

	for {
		select {
		case <-stop:
			return

		case <-sweep.C:
			if n := manager.SweepIdle(time.Now()); n > 0 {
				log.Printf("housekeeping: evicted %d idle session(s)", n)
			}
			orchestrator.RetryPending(context.Background())

		case <-reload.C:
			if err := questions.Load(context.Background()); err != nil {
				log.Printf("housekeeping: question reload failed: %v", err)
			} else {
				log.Printf("housekeeping: questions reloaded, %d topic(s) available",
					len(questions.ListTopics()))
			}
		}
	}
}
