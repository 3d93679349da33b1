package enrich

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/news-digest-bot/internal/collector"
	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

// Enricher backfills empty summaries by pulling the article page and
// extracting its readable text. Strictly best-effort: a failed fetch or
// extraction leaves the item untouched, it is never dropped.
type Enricher struct {
	client   *http.Client
	maxChars int
	log      *zap.Logger
}

func New(maxChars int, log *zap.Logger) *Enricher {
	return &Enricher{
		client:   &http.Client{Timeout: 20 * time.Second},
		maxChars: maxChars,
		log:      log,
	}
}

// Enrich fills in summaries for items that have none.
func (e *Enricher) Enrich(ctx context.Context, items []model.NewsItem) {
	for i := range items {
		if items[i].Summary != "" {
			continue
		}

		summary, err := e.extract(ctx, items[i].Link)
		if err != nil {
			e.log.Warn("summary extraction failed",
				zap.String("link", items[i].Link), zap.Error(err))
			continue
		}
		items[i].Summary = summary
	}
}

func (e *Enricher) extract(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(cleanText(doc.TextContent))
	if e.maxChars > 0 {
		text = collector.Truncate(text, e.maxChars)
	}
	return text, nil
}

// readability leaves runs of blank lines in the extracted text; collapse
// anything beyond two consecutive newlines.
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return redundantNewLines.ReplaceAllString(text, "\n")
}
