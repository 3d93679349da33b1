package model

import "time"

// Item is a feed entry as it came off the wire, before normalization.
type Item struct {
	SourceName string
	Title      string
	Summary    string
	Link       string
	// PublishedAt prefers the entry's published timestamp over updated;
	// nil when the feed provides neither or the value failed to parse.
	PublishedAt *time.Time
}

// NewsItem is one surviving headline. It lives for a single run: created
// during collection, discarded after the email goes out.
type NewsItem struct {
	// ID is the 1-based sequence number assigned at collection time.
	// It reflects feed iteration order and is not stable across runs.
	ID          int
	Source      string
	Title       string
	Summary     string
	Link        string
	PublishedAt *time.Time
	// Score is the keyword-match score, set only when scoring is enabled.
	Score int
	// Buckets are the topic buckets the item matched, in rule order.
	// An item may belong to zero, one, or several buckets.
	Buckets []string
}
