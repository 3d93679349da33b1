package config

import (
	"errors"
	"fmt"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Config is the full pipeline configuration. Values come from
// ./config.hcl, ./config.local.hcl and the environment; the env names
// carry no prefix so the conventional SMTP/OpenAI variables bind as-is.
type Config struct {
	FeedURLs     []string `hcl:"feed_urls" env:"FEED_URLS"`
	PerFeedLimit int      `hcl:"per_feed_limit" env:"PER_FEED_LIMIT" default:"10"`
	GlobalCap    int      `hcl:"global_cap" env:"GLOBAL_CAP" default:"20"`

	// RecencyWindowHours bounds how old an entry may be to count as
	// fresh. Zero disables the filter entirely.
	RecencyWindowHours int `hcl:"recency_window_hours" env:"RECENCY_WINDOW_HOURS" default:"0"`
	// RecencyFallback lets a feed with no fresh entries contribute its
	// latest ones instead of nothing.
	RecencyFallback bool `hcl:"recency_fallback" env:"RECENCY_FALLBACK" default:"true"`

	SummaryTruncateChars int `hcl:"summary_truncate_chars" env:"SUMMARY_TRUNCATE_CHARS" default:"350"`
	PromptCharCap        int `hcl:"prompt_char_cap" env:"PROMPT_CHAR_CAP" default:"12000"`

	// DedupKey selects the cross-feed deduplication key: "link" or "title".
	DedupKey string `hcl:"dedup_key" env:"DEDUP_KEY" default:"link"`

	// ScoreKeywords enables keyword scoring when non-empty.
	ScoreKeywords []string `hcl:"score_keywords" env:"SCORE_KEYWORDS"`
	// ScoreKeepTop keeps only the top fraction of items after scoring;
	// 0 keeps everything, 0.5 keeps the top half.
	ScoreKeepTop float64 `hcl:"score_keep_top" env:"SCORE_KEEP_TOP" default:"0"`

	// EnrichEmptySummaries backfills missing summaries from the article
	// page via readability. Off by default: it costs one HTTP round trip
	// per bare item.
	EnrichEmptySummaries bool `hcl:"enrich_empty_summaries" env:"ENRICH_EMPTY_SUMMARIES" default:"false"`

	OpenAIKey         string  `hcl:"openai_key" env:"OPENAI_API_KEY"`
	OpenAIModel       string  `hcl:"openai_model" env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAITemperature float64 `hcl:"openai_temperature" env:"OPENAI_TEMPERATURE" default:"0.7"`
	OpenAIMaxTokens   int     `hcl:"openai_max_tokens" env:"OPENAI_MAX_TOKENS" default:"1024"`
	// DigestPrompt overrides the built-in analyst instruction template.
	// Must contain a single %s placeholder for the headline block.
	DigestPrompt string `hcl:"digest_prompt" env:"DIGEST_PROMPT"`

	EmailFrom    string `hcl:"email_from" env:"EMAIL_FROM"`
	EmailTo      string `hcl:"email_to" env:"EMAIL_TO"`
	EmailSubject string `hcl:"email_subject" env:"EMAIL_SUBJECT" default:"Your Business News Digest"`
	SMTPServer   string `hcl:"smtp_server" env:"SMTP_SERVER"`
	SMTPPort     int    `hcl:"smtp_port" env:"SMTP_PORT" default:"587"`
	SMTPUsername string `hcl:"smtp_username" env:"SMTP_USERNAME"`
	SMTPPassword string `hcl:"smtp_password" env:"SMTP_PASSWORD"`
}

// Load reads and validates the configuration. It runs before any network
// work, so a missing API key or SMTP credential aborts the run with no
// side effects.
func Load() (Config, error) {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		Files:     []string{"./config.hcl", "./config.local.hcl"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c Config) Validate() error {
	if c.OpenAIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	required := []struct {
		name, value string
	}{
		{"EMAIL_FROM", c.EmailFrom},
		{"EMAIL_TO", c.EmailTo},
		{"SMTP_SERVER", c.SMTPServer},
		{"SMTP_USERNAME", c.SMTPUsername},
		{"SMTP_PASSWORD", c.SMTPPassword},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is not set", r.name)
		}
	}

	if len(c.FeedURLs) == 0 {
		return errors.New("no feed urls configured")
	}

	switch c.DedupKey {
	case "link", "title":
	default:
		return fmt.Errorf("dedup_key must be %q or %q, got %q", "link", "title", c.DedupKey)
	}

	if c.ScoreKeepTop < 0 || c.ScoreKeepTop > 1 {
		return fmt.Errorf("score_keep_top must be within [0, 1], got %v", c.ScoreKeepTop)
	}

	if c.DigestPrompt != "" {
		if err := validatePromptTemplate(c.DigestPrompt); err != nil {
			return fmt.Errorf("digest_prompt: %w", err)
		}
	}

	return nil
}

// validatePromptTemplate guards the Sprintf substitution of the headline
// block: the override must carry exactly one %s and no other verbs, or a
// literal percent sign in the prompt text would corrupt it silently.
func validatePromptTemplate(tmpl string) error {
	placeholders := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 >= len(tmpl) {
			return errors.New("template ends with a bare %; escape it as %%")
		}
		switch tmpl[i+1] {
		case '%':
			i++
		case 's':
			placeholders++
			i++
		default:
			return fmt.Errorf("unsupported %%%c verb; escape literal percent signs as %%%%", tmpl[i+1])
		}
	}
	if placeholders != 1 {
		return fmt.Errorf("template must contain exactly one %%s placeholder, found %d", placeholders)
	}
	return nil
}
