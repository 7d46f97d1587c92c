package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"pubmedfilter/internal/domain"

	"github.com/mmcdole/gofeed"
)

// FeedParser разбирает RSS и Atom через gofeed и переводит записи в domain.Entry.
type FeedParser struct {
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewFeedParser(log *slog.Logger) *FeedParser {
	return &FeedParser{
		parser: gofeed.NewParser(),
		log:    log,
	}
}

// Parse возвращает записи в порядке документа.
// Лента без записей считается ошибкой domain.ErrEmptyFeed.
func (p *FeedParser) Parse(ctx context.Context, reader io.Reader) ([]domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	feed, err := p.parser.Parse(reader)
	if err != nil {
		p.log.Error("Error parsing feed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		p.log.Error("Feed has no entries", slog.String("feed_title", feed.Title))
		return nil, domain.ErrEmptyFeed
	}
	entries := make([]domain.Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(item))
	}
	p.log.Debug("Feed parsed",
		slog.String("feed_title", feed.Title),
		slog.String("feed_type", feed.FeedType),
		slog.Int("entries", len(entries)),
	)
	return entries, nil
}

// toEntry копирует поля записи; для Atom без summary берется content.
func toEntry(item *gofeed.Item) domain.Entry {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	link := item.Link
	if link == "" && len(item.Links) > 0 {
		link = item.Links[0]
	}
	return domain.Entry{
		Title:     item.Title,
		Link:      link,
		ID:        item.GUID,
		Summary:   summary,
		Published: item.Published,
	}
}
