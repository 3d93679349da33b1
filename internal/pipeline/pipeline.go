package pipeline

import (
	"context"
	"html"

	"go.uber.org/zap"

	"github.com/kovalyov-valentin/news-digest-bot/internal/markup"
	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
	"github.com/kovalyov-valentin/news-digest-bot/internal/prompt"
	"github.com/kovalyov-valentin/news-digest-bot/internal/ranker"
)

// PlaceholderBody is emailed when a run collects nothing. An empty run
// is not an error: the message goes out and the process exits zero.
const PlaceholderBody = "No news items fetched. Check the RSS feeds or configuration."

// Collector produces the headline sequence for one run.
type Collector interface {
	Collect(ctx context.Context) []model.NewsItem
}

// Enricher backfills item summaries before prompt rendering.
type Enricher interface {
	Enrich(ctx context.Context, items []model.NewsItem)
}

// Generator turns the rendered headline block into the digest text.
type Generator interface {
	Generate(ctx context.Context, headlines string) (string, error)
}

// Sender delivers one message.
type Sender interface {
	Send(subject, bodyHTML string) error
}

// Options tune the stages between collection and generation.
type Options struct {
	Subject       string
	ScoreKeywords []string
	ScoreKeepTop  float64
	Buckets       []ranker.Bucket
	PromptCharCap int
}

// Pipeline runs one collect-generate-send cycle. Strictly sequential:
// no stage overlaps another, and nothing survives the run.
type Pipeline struct {
	collector Collector
	enricher  Enricher // optional
	generator Generator
	sender    Sender
	opts      Options
	log       *zap.Logger
}

func New(collector Collector, enricher Enricher, generator Generator, sender Sender, opts Options, log *zap.Logger) *Pipeline {
	return &Pipeline{
		collector: collector,
		enricher:  enricher,
		generator: generator,
		sender:    sender,
		opts:      opts,
		log:       log,
	}
}

// Run executes the pipeline once. A generation failure is downgraded to
// an error-report email; only a failed send propagates as an error.
func (p *Pipeline) Run(ctx context.Context) error {
	items := p.collector.Collect(ctx)
	p.log.Info("collected items", zap.Int("count", len(items)))

	if len(items) == 0 {
		return p.sender.Send(p.opts.Subject, PlaceholderBody)
	}

	if p.enricher != nil {
		p.enricher.Enrich(ctx, items)
	}

	if len(p.opts.ScoreKeywords) > 0 {
		ranker.Score(items, p.opts.ScoreKeywords)
		items = ranker.Rank(items, p.opts.ScoreKeepTop)
		p.log.Info("ranked items", zap.Int("kept", len(items)))
	}

	buckets := p.opts.Buckets
	if buckets == nil {
		buckets = ranker.DefaultBuckets()
	}
	for i := range items {
		items[i].Buckets = ranker.Cluster(items[i], buckets)
	}

	headlines := prompt.NewBuilder(p.opts.PromptCharCap).Build(items)

	digestText, err := p.generator.Generate(ctx, headlines)
	if err != nil {
		p.log.Error("digest generation failed", zap.Error(err))
		return p.sender.Send("ERROR: "+p.opts.Subject,
			"Digest generation failed: "+html.EscapeString(err.Error()))
	}

	return p.sender.Send(p.opts.Subject, markup.Sanitize(digestText))
}
