package writer

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"pubmedfilter/internal/domain"
)

const (
	xmlDeclaration = "<?xml version='1.0' encoding='UTF-8'?>\n"
	// LastBuildDateLayout - ISO-8601 в UTC без смещения, с микросекундами.
	LastBuildDateLayout = "2006-01-02T15:04:05.000000"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel channelXML `xml:"channel"`
}

type channelXML struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []itemXML `xml:"item"`
}

type itemXML struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// RSSWriter сериализует domain.Channel в документ RSS 2.0.
type RSSWriter struct {
	log *slog.Logger
}

func NewRSSWriter(log *slog.Logger) *RSSWriter {
	return &RSSWriter{log: log}
}

// Marshal возвращает документ с XML-декларацией и отступами в два пробела.
func Marshal(ch *domain.Channel) ([]byte, error) {
	doc := rssXML{
		Version: "2.0",
		Channel: channelXML{
			Title:         ch.Title,
			Link:          ch.Link,
			Description:   ch.Description,
			LastBuildDate: ch.LastBuildDate.UTC().Format(LastBuildDateLayout),
			Items:         make([]itemXML, 0, len(ch.Items)),
		},
	}
	for _, it := range ch.Items {
		doc.Channel.Items = append(doc.Channel.Items, itemXML(it))
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode XML: %w", err)
	}
	out := make([]byte, 0, len(xmlDeclaration)+len(body)+1)
	out = append(out, xmlDeclaration...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// Write записывает ленту в path, создавая каталог при необходимости.
// Запись идет во временный файл рядом с целевым с последующим переименованием.
func (w *RSSWriter) Write(path string, ch *domain.Channel) error {
	const op = "writer.RSSWriter.Write"
	log := w.log.With(slog.String("op", op), slog.String("path", path))

	data, err := Marshal(ch)
	if err != nil {
		log.Error("Failed to encode channel", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("Failed to create output directory", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create directory %s: %w", op, dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to write %s: %w", op, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to close %s: %w", op, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to chmod %s: %w", op, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to rename %s: %w", op, tmpName, err)
	}
	log.Info("Feed written", slog.Int("items", ch.Len()))
	return nil
}
