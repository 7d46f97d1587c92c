package domain

import (
	"errors"
	"fmt"
	"time"
)

// Entry представляет отдельную запись входной RSS/Atom-ленты.
// Summary и Published пусты, если в источнике их нет.
type Entry struct {
	Title     string
	Link      string
	ID        string
	Summary   string
	Published string
}

// Item представляет элемент выходной RSS-ленты.
type Item struct {
	Title       string
	Link        string
	GUID        string
	Description string
	PubDate     string
}

// Channel представляет выходную RSS-ленту с метаданными и списком элементов.
type Channel struct {
	Title         string
	Link          string
	Description   string
	LastBuildDate time.Time
	Items         []Item
}

// ErrEmptyFeed возвращается, когда лента разобрана, но не содержит ни одной записи.
var ErrEmptyFeed = errors.New("feed contains no entries")

// FetchError описывает неуспешный HTTP-ответ при загрузке ленты.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unexpected status code: %d for url %s", e.StatusCode, e.URL)
}

// ClassificationError оборачивает сбой обращения к сервису классификации.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }
