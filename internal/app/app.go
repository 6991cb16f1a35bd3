package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/eng-practice/quizbot/internal/app/delivery"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/answer_handler"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/cancel_handler"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/practice_handler"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/start_handler"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/stats_handler"
	"github.com/eng-practice/quizbot/internal/app/handlers/telegram/topics_handler"
	questionsRepo "github.com/eng-practice/quizbot/internal/domain/questions/repository"
	"github.com/eng-practice/quizbot/internal/domain/questions/source"
	quizService "github.com/eng-practice/quizbot/internal/domain/quiz/service"
	usersRepo "github.com/eng-practice/quizbot/internal/domain/users/repository"
	usersService "github.com/eng-practice/quizbot/internal/domain/users/service"
	"github.com/eng-practice/quizbot/internal/infra/config"
	"github.com/eng-practice/quizbot/internal/infra/middleware"
	"gopkg.in/telebot.v4"
	telemw "gopkg.in/telebot.v4/middleware"
)

// Services собирает доменные сервисы приложения
type Services struct {
	questions    *questionsRepo.Repository
	quotaService *usersService.QuotaService
	manager      *quizService.Manager
	orchestrator *quizService.Orchestrator
}

// App связывает конфигурацию, хранилище, бота и доменные сервисы
type App struct {
	config *config.Config
	bot    *telebot.Bot
	store  usersRepo.Store

	Services

	stop chan struct{}
}

// NewApp загружает конфигурацию, подключает хранилище и загружает вопросы
func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	store, err := InitStore(configImpl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app := &App{
		config: configImpl,
		store:  store,
		stop:   make(chan struct{}),
	}

	app.initServices()

	// Первая загрузка вопросов. Сбой не фатален: фоновая перезагрузка
	// повторит попытку, а до того бот честно отвечает о недоступности.
	if err := app.questions.Load(context.Background()); err != nil {
		log.Printf("initial question load failed: %v", err)
	} else {
		log.Printf("loaded %d topic(s): %s",
			len(app.questions.ListTopics()), strings.Join(app.questions.ListTopics(), ", "))
	}

	return app, nil
}

// Функция для инициализации источников, репозиториев и сервисов
func (app *App) initServices() {
	local := source.NewDir(app.config.Questions.Dir)

	var src source.Source = local
	if app.config.Questions.SheetID != "" {
		remote := source.NewSheetsFetcher(
			app.config.Questions.SheetID,
			app.config.Questions.APIKey,
			app.config.FetchTimeout(),
		)
		src = source.NewFallback(remote, local)
	}

	app.questions = questionsRepo.New(src)
	app.quotaService = usersService.NewQuotaService(app.store, app.config.Quiz.DailyLimit)
	app.manager = quizService.NewManager(
		app.questions,
		app.quotaService,
		app.store,
		app.config.Quiz.BatchSize,
		app.config.SessionIdleTimeout(),
	)
}

// ListenAndServe запускает Telegram бота и фоновые задачи. Блокируется
// до остановки бота.
func (app *App) ListenAndServe() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: &telebot.LongPoller{Timeout: app.config.PollInterval()},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(telemw.AutoRespond())
	app.bot.Use(middleware.Recover())
	if app.config.Debug {
		app.bot.Use(middleware.Logger())
	}

	app.orchestrator = quizService.NewOrchestrator(app.manager, delivery.NewTelegram(bot))

	app.bootstrapHandlersTelegram()

	go app.runHousekeeping()

	app.bot.Start()
	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	practice := practice_handler.NewPracticeHandler(app.orchestrator, app.quotaService)
	stats := stats_handler.NewStatsHandler(app.quotaService)

	app.bot.Handle("/start", start_handler.NewStartHandler(
		app.quotaService, practice.GetHandlerFunc(), stats.GetHandlerFunc()).GetHandlerFunc())
	app.bot.Handle("/practice", practice.GetHandlerFunc())
	app.bot.Handle("/topics", topics_handler.NewTopicsHandler(app.questions).GetHandlerFunc())
	app.bot.Handle("/stats", stats.GetHandlerFunc())
	app.bot.Handle("/cancel", cancel_handler.NewCancelHandler(app.orchestrator).GetHandlerFunc())

	// Кнопки с фиксированным unique
	app.bot.Handle(&practice_handler.BtnStartPractice, func(c telebot.Context) error {
		return practice.StartExtraPractice(c)
	})
	app.bot.Handle(&practice_handler.BtnChooseTopic,
		topics_handler.NewTopicsHandler(app.questions).GetHandlerFunc())

	answer := answer_handler.NewAnswerHandler(app.orchestrator)

	// Кнопки с данными в callback диспетчеризуются по префиксу
	app.bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data

		// Очищаем данные от нестандартных символов
		cleanedData := strings.TrimSpace(data)
		cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
		cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

		switch {
		case strings.HasPrefix(cleanedData, "answer_"):
			return answer.Handle(c)
		case cleanedData == "topic_random":
			return practice.StartTopicSession(c, "")
		case strings.HasPrefix(cleanedData, "topic_"):
			// Имя темы может содержать пробелы и подчеркивания,
			// поэтому срезаем только префикс.
			return practice.StartTopicSession(c, strings.TrimPrefix(cleanedData, "topic_"))
		}

		return nil
	})
}

// runHousekeeping ведет фоновые циклы: выметание простаивающих сессий,
// повтор незафиксированных результатов и перезагрузку вопросов.
func (app *App) runHousekeeping() {
	RunHousekeeping(
		app.stop,
		app.manager,
		app.orchestrator,
		app.questions,
		app.config.ReloadInterval(),
	)
}

// Stop останавливает бота, фоновые задачи и закрывает хранилище
func (app *App) Stop() {
	close(app.stop)
	if app.bot != nil {
		app.bot.Stop()
	}
	if err := app.store.Close(); err != nil {
		log.Printf("failed to close store: %v", err)
	}
}

// проверка на этапе компиляции, что канал доставки реализует контракт
var _ quizService.DeliveryChannel = (*delivery.Telegram)(nil)
