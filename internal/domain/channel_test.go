package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannel_SetsMetadataAndUTCBuildDate(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	fixed := time.Date(2026, 10, 14, 12, 30, 0, 0, loc)

	ch := NewChannel("Title", "https://example.com/feed", "Desc", func() time.Time { return fixed })

	assert.Equal(t, "Title", ch.Title)
	assert.Equal(t, "https://example.com/feed", ch.Link)
	assert.Equal(t, "Desc", ch.Description)
	assert.Equal(t, time.UTC, ch.LastBuildDate.Location())
	assert.True(t, fixed.Equal(ch.LastBuildDate))
	assert.Empty(t, ch.Items)
}

func TestNewChannel_NilClockUsesNow(t *testing.T) {
	before := time.Now()
	ch := NewChannel("t", "l", "d", nil)
	assert.WithinDuration(t, before, ch.LastBuildDate, time.Second)
}

func TestChannel_AppendItem_CopiesFields(t *testing.T) {
	ch := NewChannel("t", "l", "d", nil)
	entry := Entry{
		Title:     "Oral squamous cell carcinoma",
		Link:      "https://pubmed.ncbi.nlm.nih.gov/1/",
		ID:        "pubmed:1",
		Summary:   "Abstract text",
		Published: "Tue, 13 Oct 2026 06:00:00 -0400",
	}

	ch.AppendItem(entry)

	require.Equal(t, 1, ch.Len())
	assert.Equal(t, Item{
		Title:       entry.Title,
		Link:        entry.Link,
		GUID:        entry.ID,
		Description: entry.Summary,
		PubDate:     entry.Published,
	}, ch.Items[0])
}

func TestChannel_AppendItem_KeepsOrderAndDuplicates(t *testing.T) {
	ch := NewChannel("t", "l", "d", nil)
	a := Entry{Title: "a", ID: "1"}
	b := Entry{Title: "b", ID: "2"}

	ch.AppendItem(a)
	ch.AppendItem(b)
	ch.AppendItem(a)

	require.Equal(t, 3, ch.Len())
	assert.Equal(t, "1", ch.Items[0].GUID)
	assert.Equal(t, "2", ch.Items[1].GUID)
	assert.Equal(t, "1", ch.Items[2].GUID)
}

func TestChannel_AppendItem_EmptySummary(t *testing.T) {
	ch := NewChannel("t", "l", "d", nil)
	ch.AppendItem(Entry{Title: "no summary", ID: "x"})
	assert.Equal(t, "", ch.Items[0].Description)
	assert.Equal(t, "", ch.Items[0].PubDate)
}

func TestErrors(t *testing.T) {
	fetchErr := &FetchError{URL: "https://example.com", StatusCode: 503}
	assert.Contains(t, fetchErr.Error(), "unexpected status code: 503")

	inner := errors.New("rate limited")
	var err error = &ClassificationError{Err: inner}
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "rate limited")
}
