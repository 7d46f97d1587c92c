package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"pubmedfilter/internal/domain"
	"time"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"

// HTTPFetcher загружает ленты по HTTP с идентифицирующими заголовками и фиксированным таймаутом.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// NewHTTPFetcher создает HTTPFetcher с собственным клиентом и указанным таймаутом.
func NewHTTPFetcher(userAgent string, timeout time.Duration, log *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch выполняет GET-запрос и возвращает тело ответа, которое вызывающий обязан закрыть.
// Статус вне диапазона 2xx возвращается как *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	log := f.log.With(slog.String("url", url))
	log.Info("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		log.Error("Unexpected status code", slog.Int("status_code", resp.StatusCode))
		return nil, &domain.FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	log.Info("Successfully fetched URL", slog.Int("status_code", resp.StatusCode))
	return resp.Body, nil
}
