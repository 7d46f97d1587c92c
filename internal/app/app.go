package app

import (
	"context"
	"io"
	"log/slog"
	"pubmedfilter/internal/adapter/classifier"
	"pubmedfilter/internal/adapter/fetcher"
	"pubmedfilter/internal/adapter/parser"
	"pubmedfilter/internal/adapter/writer"
	"pubmedfilter/internal/config"
	"pubmedfilter/internal/usecase"
)

// App связывает компоненты фильтра и выполняет один прогон.
type App struct {
	config *config.Config
	logger *slog.Logger
	filter *usecase.FilterFeedUseCase
}

// New создает приложение из проверенной конфигурации.
// Строки отчета пишутся в report, журнал - в logger.
func New(cfg *config.Config, logger *slog.Logger, report io.Writer) *App {
	httpFetcher := fetcher.NewHTTPFetcher(cfg.Feed.UserAgent, cfg.Feed.Timeout, logger)

	feedParser := parser.NewFeedParser(logger)

	openAI := classifier.NewOpenAIClassifier(classifier.Options{
		BaseURL:           cfg.Classifier.BaseURL,
		APIKey:            cfg.Classifier.APIKey,
		Model:             cfg.Classifier.Model,
		Timeout:           cfg.Classifier.Timeout,
		RequestsPerMinute: cfg.Classifier.RequestsPerMinute,
	}, logger)

	rssWriter := writer.NewRSSWriter(logger)

	filter := usecase.NewFilterFeedUseCase(httpFetcher, feedParser, openAI, rssWriter, report, logger, usecase.FilterOptions{
		FeedURL:      cfg.Feed.URL,
		AcceptedPath: cfg.Output.AcceptedPath,
		RejectedPath: cfg.Output.RejectedPath,
	})

	return &App{
		config: cfg,
		logger: logger,
		filter: filter,
	}
}

// Run выполняет прогон и возвращает его итоги.
func (a *App) Run(ctx context.Context) (usecase.Result, error) {
	a.logger.Info("Starting PubMed filter",
		slog.String("component", "app"),
		slog.String("url", a.config.Feed.URL),
		slog.String("model", a.config.Classifier.Model),
	)
	return a.filter.Run(ctx)
}
