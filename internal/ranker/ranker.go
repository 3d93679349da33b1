package ranker

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

// keywordPoints is awarded per matched keyword.
const keywordPoints = 2

// Score computes the keyword score for each item in place. A keyword
// counts when it appears as a case-insensitive substring of
// "title summary"; every hit is worth keywordPoints.
func Score(items []model.NewsItem, keywords []string) {
	terms := normalizeTerms(keywords)

	for i := range items {
		text := strings.ToLower(items[i].Title + " " + items[i].Summary)

		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score += keywordPoints
			}
		}
		items[i].Score = score
	}
}

// Rank returns the items sorted by score descending. The sort is stable,
// so the original collection order survives among equal scores. When
// 0 < keepTop < 1 only the top fraction is kept, rounded up and never
// below one item.
func Rank(items []model.NewsItem, keepTop float64) []model.NewsItem {
	ranked := make([]model.NewsItem, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if keepTop > 0 && keepTop < 1 && len(ranked) > 0 {
		n := int(math.Ceil(float64(len(ranked)) * keepTop))
		if n < 1 {
			n = 1
		}
		ranked = ranked[:n]
	}

	return ranked
}

// Bucket is one named clustering rule: an item belongs to the bucket
// when any of its keywords matches the item's text.
type Bucket struct {
	Name     string
	Keywords []string
}

// DefaultBuckets covers the business domains the digest is tuned for.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: "macro", Keywords: []string{"rbi", "inflation", "gdp", "interest rate", "fiscal", "monetary", "gst", "budget"}},
		{Name: "commodities", Keywords: []string{"gold", "silver", "crude", "oil", "commodity", "bullion", "copper"}},
		{Name: "diamonds", Keywords: []string{"diamond", "gem", "polished", "rough", "solitaire"}},
		{Name: "retail", Keywords: []string{"retail", "consumer", "store", "jewellery", "jewelry", "sales", "export"}},
		{Name: "craft", Keywords: []string{"artisan", "craft", "karigar", "hallmark", "handmade"}},
	}
}

// Cluster returns the names of the buckets the item matches, in rule
// order. Membership is deliberately non-exclusive: an item may land in
// zero, one, or several buckets.
func Cluster(item model.NewsItem, buckets []Bucket) []string {
	text := strings.ToLower(item.Title + " " + item.Summary)

	var names []string
	for _, b := range buckets {
		hit := lo.SomeBy(b.Keywords, func(kw string) bool {
			return strings.Contains(text, strings.ToLower(kw))
		})
		if hit {
			names = append(names, b.Name)
		}
	}
	return names
}

func normalizeTerms(keywords []string) []string {
	var terms []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			terms = append(terms, kw)
		}
	}
	return terms
}
