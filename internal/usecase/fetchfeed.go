package usecase

import (
	"context"
	"io"
	"pubmedfilter/internal/domain"
)

// FeedFetcher загружает ленту из внешнего источника.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser разбирает сырые данные ленты в упорядоченный список записей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.Entry, error)
}

// Classifier выносит бинарный вердикт по тексту записи.
type Classifier interface {
	Classify(ctx context.Context, text string) (bool, error)
}

// FeedWriter сохраняет выходную ленту по указанному пути.
type FeedWriter interface {
	Write(path string, ch *domain.Channel) error
}
