package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/news-digest-bot/internal/collector"
	"github.com/kovalyov-valentin/news-digest-bot/internal/config"
	"github.com/kovalyov-valentin/news-digest-bot/internal/digest"
	"github.com/kovalyov-valentin/news-digest-bot/internal/enrich"
	"github.com/kovalyov-valentin/news-digest-bot/internal/mailer"
	"github.com/kovalyov-valentin/news-digest-bot/internal/pipeline"
	"github.com/kovalyov-valentin/news-digest-bot/internal/ranker"
	"github.com/kovalyov-valentin/news-digest-bot/internal/source"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	// Local runs keep credentials in .env; absence is fine elsewhere.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	// Configuration is validated before any network work, so a missing
	// API key or SMTP credential aborts with no side effects.
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sources := lo.Map(cfg.FeedURLs, func(url string, _ int) collector.Source {
		return source.NewRSSSource(url, cfg.PerFeedLimit)
	})

	coll := collector.New(sources, collector.Options{
		GlobalCap:            cfg.GlobalCap,
		RecencyWindow:        time.Duration(cfg.RecencyWindowHours) * time.Hour,
		RecencyFallback:      cfg.RecencyFallback,
		SummaryTruncateChars: cfg.SummaryTruncateChars,
		DedupKey:             cfg.DedupKey,
	}, logger)

	var enricher pipeline.Enricher
	if cfg.EnrichEmptySummaries {
		enricher = enrich.New(cfg.SummaryTruncateChars, logger)
	}

	generator := digest.NewOpenAIGenerator(
		cfg.OpenAIKey,
		cfg.OpenAIModel,
		cfg.DigestPrompt,
		float32(cfg.OpenAITemperature),
		cfg.OpenAIMaxTokens,
	)

	sender := mailer.New(mailer.Config{
		From:     cfg.EmailFrom,
		To:       cfg.EmailTo,
		Server:   cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})

	run := pipeline.New(coll, enricher, generator, sender, pipeline.Options{
		Subject:       cfg.EmailSubject,
		ScoreKeywords: cfg.ScoreKeywords,
		ScoreKeepTop:  cfg.ScoreKeepTop,
		Buckets:       ranker.DefaultBuckets(),
		PromptCharCap: cfg.PromptCharCap,
	}, logger)

	if err := run.Run(ctx); err != nil {
		logger.Error("digest run failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("digest run complete")
}
