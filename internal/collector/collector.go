package collector

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

// Ellipsis marks a truncated summary.
const Ellipsis = "..."

// Source is anything that can produce raw feed entries. RSS sources
// implement it; tests substitute fakes.
type Source interface {
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Options control normalization and deduplication.
type Options struct {
	// GlobalCap bounds the total collected set; collection stops early
	// across remaining feeds once it is reached. <= 0 means unbounded.
	GlobalCap int
	// RecencyWindow excludes entries older than this from a feed's
	// fresh subset. Zero disables the filter.
	RecencyWindow time.Duration
	// RecencyFallback lets a feed whose fresh subset is empty fall back
	// to its unfiltered entries, so every live feed can contribute.
	RecencyFallback bool
	// SummaryTruncateChars caps stored summary length in runes;
	// truncated summaries end with Ellipsis. <= 0 disables truncation.
	SummaryTruncateChars int
	// DedupKey is "link" (default) or "title" for lowercased-title dedup.
	DedupKey string
}

// Collector walks the configured sources in order and assembles the
// final NewsItem sequence for one run.
type Collector struct {
	sources []Source
	opts    Options
	log     *zap.Logger

	now func() time.Time
}

func New(sources []Source, opts Options, log *zap.Logger) *Collector {
	return &Collector{
		sources: sources,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Collect fetches every source sequentially, in list order. A source
// that fails to fetch or parse contributes nothing and the run goes on;
// there is no retry. Within one run no two surviving items share a
// dedup key, and ids are assigned in iteration order starting at 1.
func (c *Collector) Collect(ctx context.Context) []model.NewsItem {
	seen := set.New[string]()
	var items []model.NewsItem

	for _, src := range c.sources {
		if c.capReached(items) {
			break
		}

		entries, err := src.Fetch(ctx)
		if err != nil {
			c.log.Error("fetching feed", zap.Error(err))
			continue
		}

		for _, entry := range c.filterRecent(entries) {
			if c.capReached(items) {
				break
			}

			item, ok := c.normalize(entry)
			if !ok {
				continue
			}

			key := c.dedupKey(item)
			if seen.Contains(key) {
				continue
			}
			seen.Add(key)

			item.ID = len(items) + 1
			items = append(items, item)
		}
	}

	return items
}

func (c *Collector) capReached(items []model.NewsItem) bool {
	return c.opts.GlobalCap > 0 && len(items) >= c.opts.GlobalCap
}

// filterRecent applies the recency window to a single feed's entries.
// Entries with no parseable timestamp are treated as stale, never
// optimistically included.
func (c *Collector) filterRecent(entries []model.Item) []model.Item {
	if c.opts.RecencyWindow <= 0 {
		return entries
	}

	cutoff := c.now().Add(-c.opts.RecencyWindow)
	recent := lo.Filter(entries, func(e model.Item, _ int) bool {
		return e.PublishedAt != nil && e.PublishedAt.After(cutoff)
	})

	if len(recent) == 0 && c.opts.RecencyFallback {
		return entries
	}
	return recent
}

// normalize trims the entry and converts it to a NewsItem. Entries
// missing a title or link after trimming are discarded; a missing
// summary alone never discards an entry.
func (c *Collector) normalize(entry model.Item) (model.NewsItem, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return model.NewsItem{}, false
	}

	summary := strings.TrimSpace(entry.Summary)
	if c.opts.SummaryTruncateChars > 0 {
		summary = Truncate(summary, c.opts.SummaryTruncateChars)
	}

	return model.NewsItem{
		Source:      entry.SourceName,
		Title:       title,
		Summary:     summary,
		Link:        link,
		PublishedAt: entry.PublishedAt,
	}, true
}

func (c *Collector) dedupKey(item model.NewsItem) string {
	if c.opts.DedupKey == "title" {
		return strings.ToLower(item.Title)
	}
	return item.Link
}

// Truncate cuts s to at most n runes, appending the ellipsis marker
// when anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + Ellipsis
}
