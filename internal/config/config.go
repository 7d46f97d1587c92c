package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIKey содержит ключ доступа к сервису классификации.
	EnvAPIKey = "OPENAI_API_KEY"
	// EnvBaseURL переопределяет адрес OpenAI-совместимого API.
	EnvBaseURL = "OPENAI_BASE_URL"
	// EnvConfigPath указывает на необязательный YAML-файл конфигурации.
	EnvConfigPath = "PUBMEDFILTER_CONFIG"
	// EnvLogLevel переопределяет уровень логирования.
	EnvLogLevel = "PUBMEDFILTER_LOG_LEVEL"
)

// Config представляет конфигурацию фильтра PubMed-ленты.
type Config struct {
	Logger     LoggerConfig     `yaml:"logger"`
	Feed       FeedConfig       `yaml:"feed"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Output     OutputConfig     `yaml:"output"`
}

// LoggerConfig содержит настройки системы логирования.
type LoggerConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	ErrorFile  string `yaml:"error_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// FeedConfig описывает входную ленту.
type FeedConfig struct {
	URL       string        `yaml:"url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ClassifierConfig содержит параметры обращения к сервису классификации.
// Нулевой RequestsPerMinute означает отсутствие ограничения.
type ClassifierConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"-"`
	Model             string        `yaml:"model"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// OutputConfig содержит пути выходных файлов.
type OutputConfig struct {
	AcceptedPath string `yaml:"accepted_path"`
	RejectedPath string `yaml:"rejected_path"`
}

// New создает Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:      "info",
			File:       "logs/pubmedfilter.log",
			ErrorFile:  "logs/pubmedfilter_error.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Feed: FeedConfig{
			URL:       "https://pubmed.ncbi.nlm.nih.gov/rss/search/1FKYAX__W2XmZZnH7wCJZ2gjg5p61zj0lAum4ErUZK11BzSsdZ/?limit=100",
			UserAgent: "pubmedfilter/1.0 (+https://pubmed.ncbi.nlm.nih.gov)",
			Timeout:   30 * time.Second,
		},
		Classifier: ClassifierConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 600 * time.Second,
		},
		Output: OutputConfig{
			AcceptedPath: "output/filtered_feed.xml",
			RejectedPath: "output/rejected_feed.xml",
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл
// (только если задан PUBMEDFILTER_CONFIG), затем переменные окружения.
// В YAML поддерживается подстановка ${VAR}.
func Load() (*Config, error) {
	cfg := New()
	if path := os.Getenv(EnvConfigPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML from file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Classifier.APIKey = os.Getenv(EnvAPIKey)
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Classifier.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logger.Level = v
	}
}

// Validate проверяет корректность конфигурации и возвращает первую найденную проблему.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Feed.URL); err != nil {
		return fmt.Errorf("invalid feed.url: %s", c.Feed.URL)
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive")
	}
	if c.Classifier.APIKey == "" {
		return fmt.Errorf("%s is not set", EnvAPIKey)
	}
	if _, err := url.ParseRequestURI(c.Classifier.BaseURL); err != nil {
		return fmt.Errorf("invalid classifier.base_url: %s", c.Classifier.BaseURL)
	}
	if c.Classifier.Model == "" {
		return fmt.Errorf("classifier.model is not set")
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier.timeout must be positive")
	}
	if c.Classifier.RequestsPerMinute < 0 {
		return fmt.Errorf("classifier.requests_per_minute must not be negative")
	}
	if c.Output.AcceptedPath == "" || c.Output.RejectedPath == "" {
		return fmt.Errorf("output paths must not be empty")
	}
	if c.Output.AcceptedPath == c.Output.RejectedPath {
		return fmt.Errorf("output.accepted_path and output.rejected_path must differ")
	}
	return nil
}
