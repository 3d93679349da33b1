package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

// RSSSource is a client for a single RSS/Atom endpoint.
type RSSSource struct {
	url    string
	limit  int
	parser *gofeed.Parser
}

// NewRSSSource builds a source for url. At most limit entries are taken
// per fetch; limit <= 0 means no cap.
func NewRSSSource(url string, limit int) *RSSSource {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}

	return &RSSSource{
		url:    url,
		limit:  limit,
		parser: parser,
	}
}

func (s *RSSSource) URL() string { return s.url }

// Fetch loads and parses the feed, returning its entries in feed order.
// The source name is the feed title, or the URL when the title is empty.
func (s *RSSSource) Fetch(ctx context.Context) ([]model.Item, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}

	name := strings.TrimSpace(feed.Title)
	if name == "" {
		name = s.url
	}

	entries := feed.Items
	if s.limit > 0 && len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	return lo.Map(entries, func(item *gofeed.Item, _ int) model.Item {
		return model.Item{
			SourceName:  name,
			Title:       item.Title,
			Summary:     entrySummary(item),
			Link:        item.Link,
			PublishedAt: entryTime(item),
		}
	}), nil
}

func entrySummary(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

// entryTime prefers published over updated, in that order.
func entryTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
