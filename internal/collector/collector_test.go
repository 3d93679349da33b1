package collector

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

type fakeSource struct {
	items []model.Item
	err   error
}

func (f fakeSource) Fetch(ctx context.Context) ([]model.Item, error) {
	return f.items, f.err
}

func ts(t time.Time) *time.Time { return &t }

func newCollector(sources []Source, opts Options) *Collector {
	return New(sources, opts, zap.NewNop())
}

func TestDedupByLink(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{
			{SourceName: "A", Title: "X", Link: "L1"},
			{SourceName: "A", Title: "Y", Link: "L1"},
		}},
	}, Options{})

	items := c.Collect(context.Background())

	if len(items) != 1 {
		t.Fatalf("expected 1 item after link dedup, got %d", len(items))
	}
	if items[0].Title != "X" || items[0].Link != "L1" {
		t.Errorf("expected first-seen item to survive, got %+v", items[0])
	}
}

func TestDedupAcrossFeeds(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{{SourceName: "A", Title: "X", Link: "L1"}}},
		fakeSource{items: []model.Item{{SourceName: "B", Title: "Z", Link: "L1"}}},
	}, Options{})

	items := c.Collect(context.Background())

	if len(items) != 1 {
		t.Fatalf("expected cross-feed dedup to leave 1 item, got %d", len(items))
	}
	if items[0].Source != "A" {
		t.Errorf("expected the earlier feed's item to survive, got source %q", items[0].Source)
	}
}

func TestDedupByLoweredTitle(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{
			{Title: "Gold Rises", Link: "L1"},
			{Title: "GOLD RISES", Link: "L2"},
			{Title: "Gold falls", Link: "L3"},
		}},
	}, Options{DedupKey: "title"})

	items := c.Collect(context.Background())

	if len(items) != 2 {
		t.Fatalf("expected 2 items after title dedup, got %d", len(items))
	}
	if items[0].Link != "L1" || items[1].Link != "L3" {
		t.Errorf("unexpected survivors: %+v", items)
	}
}

func TestDiscardsMissingTitleOrLink(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{
			{Title: "", Link: "L1"},
			{Title: "   ", Link: "L2"},
			{Title: "ok", Link: ""},
			{Title: "ok", Link: "  "},
			{Title: "  kept  ", Link: " L5 "},
			{Title: "no summary", Link: "L6"},
		}},
	}, Options{})

	items := c.Collect(context.Background())

	if len(items) != 2 {
		t.Fatalf("expected 2 surviving items, got %d", len(items))
	}
	if items[0].Title != "kept" || items[0].Link != "L5" {
		t.Errorf("expected trimmed fields, got %+v", items[0])
	}
	// A missing summary alone never discards an entry.
	if items[1].Title != "no summary" || items[1].Summary != "" {
		t.Errorf("expected empty-summary item to survive, got %+v", items[1])
	}
}

func TestGlobalCapStopsAcrossFeeds(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{
			{Title: "a1", Link: "1"},
			{Title: "a2", Link: "2"},
			{Title: "a3", Link: "3"},
		}},
		fakeSource{items: []model.Item{
			{Title: "b1", Link: "4"},
			{Title: "b2", Link: "5"},
			{Title: "b3", Link: "6"},
		}},
	}, Options{GlobalCap: 5})

	items := c.Collect(context.Background())

	if len(items) != 5 {
		t.Fatalf("expected exactly 5 items, got %d", len(items))
	}
	want := []string{"a1", "a2", "a3", "b1", "b2"}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("position %d: want %q, got %q", i, title, items[i].Title)
		}
		if items[i].ID != i+1 {
			t.Errorf("position %d: want id %d, got %d", i, i+1, items[i].ID)
		}
	}
}

func TestSummaryTruncation(t *testing.T) {
	long := strings.Repeat("x", 500)
	c := newCollector([]Source{
		fakeSource{items: []model.Item{{Title: "t", Link: "l", Summary: long}}},
	}, Options{SummaryTruncateChars: 350})

	items := c.Collect(context.Background())

	got := items[0].Summary
	if len([]rune(got)) != 350+len(Ellipsis) {
		t.Errorf("want length %d, got %d", 350+len(Ellipsis), len([]rune(got)))
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("truncated summary must end with %q", Ellipsis)
	}
}

func TestShortSummaryUntouched(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{items: []model.Item{{Title: "t", Link: "l", Summary: "short"}}},
	}, Options{SummaryTruncateChars: 350})

	items := c.Collect(context.Background())

	if items[0].Summary != "short" {
		t.Errorf("short summary must pass through, got %q", items[0].Summary)
	}
}

func TestRecencyFilterWithFallback(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stale := []model.Item{
		{Title: "old1", Link: "1", PublishedAt: ts(now.Add(-48 * time.Hour))},
		{Title: "old2", Link: "2", PublishedAt: ts(now.Add(-72 * time.Hour))},
	}

	tests := []struct {
		name     string
		fallback bool
		want     int
	}{
		{name: "fallback yields latest entries", fallback: true, want: 2},
		{name: "no fallback yields nothing", fallback: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollector([]Source{fakeSource{items: stale}}, Options{
				RecencyWindow:   24 * time.Hour,
				RecencyFallback: tt.fallback,
			})
			c.now = func() time.Time { return now }

			items := c.Collect(context.Background())
			if len(items) != tt.want {
				t.Errorf("want %d items, got %d", tt.want, len(items))
			}
		})
	}
}

func TestRecencyFilterKeepsFreshOnly(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newCollector([]Source{
		fakeSource{items: []model.Item{
			{Title: "fresh", Link: "1", PublishedAt: ts(now.Add(-2 * time.Hour))},
			{Title: "stale", Link: "2", PublishedAt: ts(now.Add(-30 * time.Hour))},
			{Title: "undated", Link: "3"},
		}},
	}, Options{RecencyWindow: 24 * time.Hour, RecencyFallback: true})
	c.now = func() time.Time { return now }

	items := c.Collect(context.Background())

	if len(items) != 1 || items[0].Title != "fresh" {
		t.Errorf("expected only the fresh item, got %+v", items)
	}
}

func TestFailedSourceIsSkipped(t *testing.T) {
	c := newCollector([]Source{
		fakeSource{err: errors.New("boom")},
		fakeSource{items: []model.Item{{Title: "t", Link: "l"}}},
	}, Options{})

	items := c.Collect(context.Background())

	if len(items) != 1 || items[0].Title != "t" {
		t.Errorf("a failed feed must contribute zero items without aborting, got %+v", items)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"abcdef", 4, "abcd" + Ellipsis},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateMultibyte(t *testing.T) {
	got := Truncate("सोने की कीमत", 4)
	if got != "सोने"+Ellipsis {
		t.Errorf("rune-wise truncation expected, got %q", got)
	}
}
