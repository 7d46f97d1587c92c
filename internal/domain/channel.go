package domain

import "time"

// NewChannel создает пустую ленту. LastBuildDate фиксируется в момент создания, в UTC.
func NewChannel(title, link, description string, now func() time.Time) *Channel {
	if now == nil {
		now = time.Now
	}
	return &Channel{
		Title:         title,
		Link:          link,
		Description:   description,
		LastBuildDate: now().UTC(),
		Items:         []Item{},
	}
}

// AppendItem добавляет копию записи в конец ленты. Дубликаты не отсекаются.
func (c *Channel) AppendItem(e Entry) {
	c.Items = append(c.Items, Item{
		Title:       e.Title,
		Link:        e.Link,
		GUID:        e.ID,
		Description: e.Summary,
		PubDate:     e.Published,
	})
}

// Len возвращает количество элементов в ленте.
func (c *Channel) Len() int { return len(c.Items) }
