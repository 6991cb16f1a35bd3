package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит параметры приложения. Значения передаются в конструкторы
// компонентов явно, глобально конфигурация не читается.
type Config struct {
	TelegramBot struct {
		Token               string `yaml:"token"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	} `yaml:"telegram_bot"`
	Quiz struct {
		DailyLimit         int `yaml:"daily_limit"`          // вопросов в день в режиме daily
		BatchSize          int `yaml:"batch_size"`           // вопросов в одной сессии
		SessionIdleMinutes int `yaml:"session_idle_minutes"` // простой до выметания сессии
		ReloadMinutes      int `yaml:"reload_minutes"`       // период перезагрузки вопросов
	} `yaml:"quiz"`
	Questions struct {
		Dir                 string `yaml:"dir"`      // каталог CSV-файлов (резервный источник)
		SheetID             string `yaml:"sheet_id"` // Google-таблица (основной источник)
		APIKey              string `yaml:"api_key"`
		FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	} `yaml:"questions"`
	Storage struct {
		Driver string `yaml:"driver"` // sqlite | postgres | memory
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`
	Debug bool `yaml:"debug"`
}

// LoadConfig читает YAML-файл и накладывает переменные окружения
// (.env подхватывается, если существует). Отсутствующим полям
// присваиваются значения по умолчанию.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config %s: %w", filename, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if cfg.TelegramBot.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not set (telegram_bot.token or TELEGRAM_BOT_TOKEN)")
	}
	return cfg, nil
}

// applyEnv накладывает переменные окружения поверх значений из файла
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramBot.Token = v
	}
	if v := os.Getenv("GOOGLE_SHEET_ID"); v != "" {
		cfg.Questions.SheetID = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Questions.APIKey = v
	}
	if v := os.Getenv("QUESTIONS_DIR"); v != "" {
		cfg.Questions.Dir = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("DAILY_QUESTION_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quiz.DailyLimit = n
		}
	}
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

func applyDefaults(cfg *Config) {
	if cfg.TelegramBot.PollIntervalSeconds <= 0 {
		cfg.TelegramBot.PollIntervalSeconds = 10
	}
	if cfg.Quiz.DailyLimit <= 0 {
		cfg.Quiz.DailyLimit = 5
	}
	if cfg.Quiz.BatchSize <= 0 {
		cfg.Quiz.BatchSize = 5
	}
	if cfg.Quiz.SessionIdleMinutes <= 0 {
		cfg.Quiz.SessionIdleMinutes = 30
	}
	if cfg.Quiz.ReloadMinutes <= 0 {
		cfg.Quiz.ReloadMinutes = 60
	}
	if cfg.Questions.Dir == "" {
		cfg.Questions.Dir = "questions"
	}
	if cfg.Questions.FetchTimeoutSeconds <= 0 {
		cfg.Questions.FetchTimeoutSeconds = 10
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.Driver == "sqlite" && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "quizbot.db"
	}
}

// PollInterval возвращает интервал лонгпуллинга
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.TelegramBot.PollIntervalSeconds) * time.Second
}

// SessionIdleTimeout возвращает срок простоя, после которого сессия выметается
func (c *Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.Quiz.SessionIdleMinutes) * time.Minute
}

// ReloadInterval возвращает период фоновой перезагрузки вопросов
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.Quiz.ReloadMinutes) * time.Minute
}

// FetchTimeout возвращает таймаут запроса к удаленному источнику
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Questions.FetchTimeoutSeconds) * time.Second
}
