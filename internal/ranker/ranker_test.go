package ranker

import (
	"reflect"
	"testing"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

func TestScore(t *testing.T) {
	items := []model.NewsItem{
		{Title: "Gold exports hit record", Summary: "Earnings season ahead"},
		{Title: "Cricket results", Summary: ""},
		{Title: "GST council meets", Summary: "gst rates on gold unchanged"},
	}

	Score(items, []string{"gold", "export", "earnings", "gst"})

	want := []int{6, 0, 4}
	for i, w := range want {
		if items[i].Score != w {
			t.Errorf("item %d: want score %d, got %d", i, w, items[i].Score)
		}
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	items := []model.NewsItem{{Title: "GOLD Prices Surge"}}
	Score(items, []string{"Gold"})
	if items[0].Score != 2 {
		t.Errorf("want 2, got %d", items[0].Score)
	}
}

func TestRankStableOrder(t *testing.T) {
	items := []model.NewsItem{
		{Title: "a", Score: 2},
		{Title: "b", Score: 4},
		{Title: "c", Score: 2},
		{Title: "d", Score: 2},
	}

	ranked := Rank(items, 0)

	want := []string{"b", "a", "c", "d"}
	for i, title := range want {
		if ranked[i].Title != title {
			t.Errorf("position %d: want %q, got %q", i, title, ranked[i].Title)
		}
	}

	// The input slice keeps its original order.
	if items[0].Title != "a" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRankKeepTop(t *testing.T) {
	items := []model.NewsItem{
		{Title: "a", Score: 8},
		{Title: "b", Score: 6},
		{Title: "c", Score: 4},
		{Title: "d", Score: 2},
	}

	tests := []struct {
		keepTop float64
		want    int
	}{
		{0, 4},
		{1, 4},
		{0.5, 2},
		{0.3, 2}, // ceil(1.2)
		{0.1, 1},
	}
	for _, tt := range tests {
		if got := len(Rank(items, tt.keepTop)); got != tt.want {
			t.Errorf("keepTop %v: want %d items, got %d", tt.keepTop, tt.want, got)
		}
	}
}

func TestClusterNonExclusive(t *testing.T) {
	buckets := DefaultBuckets()

	tests := []struct {
		name string
		item model.NewsItem
		want []string
	}{
		{
			name: "multiple buckets",
			item: model.NewsItem{Title: "Gold jewellery retail sales climb"},
			want: []string{"commodities", "retail"},
		},
		{
			name: "single bucket",
			item: model.NewsItem{Title: "RBI holds interest rate"},
			want: []string{"macro"},
		},
		{
			name: "no bucket",
			item: model.NewsItem{Title: "Weather update for the weekend"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cluster(tt.item, buckets)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cluster(%q) = %v, want %v", tt.item.Title, got, tt.want)
			}
		})
	}
}

func TestClusterRuleOrder(t *testing.T) {
	buckets := []Bucket{
		{Name: "first", Keywords: []string{"gold"}},
		{Name: "second", Keywords: []string{"gold"}},
	}
	got := Cluster(model.NewsItem{Title: "gold"}, buckets)
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Errorf("bucket names must come back in rule order, got %v", got)
	}
}
