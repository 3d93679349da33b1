package prompt

import (
	"fmt"
	"strings"

	"github.com/kovalyov-valentin/news-digest-bot/internal/model"
)

// Builder renders collected items into the headline block handed to the
// model. The character cap is applied per stanza: rendering stops before
// the stanza that would cross it, so an item is either fully present or
// absent, never cut in the middle.
type Builder struct {
	charCap int
}

// NewBuilder returns a Builder with the given overall character cap;
// charCap <= 0 means unbounded.
func NewBuilder(charCap int) *Builder {
	return &Builder{charCap: charCap}
}

// Build renders one stanza per item, in order, numbered from 1.
func (b *Builder) Build(items []model.NewsItem) string {
	var sb strings.Builder

	for i, item := range items {
		stanza := renderStanza(i+1, item)
		if b.charCap > 0 && sb.Len()+len(stanza) > b.charCap {
			break
		}
		sb.WriteString(stanza)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderStanza(n int, item model.NewsItem) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d) [%s] %s\n", n, item.Source, item.Title)
	if item.Summary != "" {
		fmt.Fprintf(&sb, "   Summary: %s\n", item.Summary)
	}
	if item.Link != "" {
		fmt.Fprintf(&sb, "   Link: %s\n", item.Link)
	}
	if len(item.Buckets) > 0 {
		fmt.Fprintf(&sb, "   Topics: %s\n", strings.Join(item.Buckets, ", "))
	}
	sb.WriteString("\n")

	return sb.String()
}
