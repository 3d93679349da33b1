package markup

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "Gold prices rose today.",
			want:  "Gold prices rose today.",
		},
		{
			name:  "benign markup preserved",
			input: "<h2>Headline</h2><p>Body</p>",
			want:  "<h2>Headline</h2><p>Body</p>",
		},
		{
			name:  "script subtree dropped",
			input: `<p>hi</p><script>alert(1)</script>`,
			want:  "<p>hi</p>",
		},
		{
			name:  "style subtree dropped",
			input: `<style>p{display:none}</style><p>hi</p>`,
			want:  "<p>hi</p>",
		},
		{
			name:  "event handler attribute dropped",
			input: `<a href="https://example.com" onclick="evil()">x</a>`,
			want:  `<a href="https://example.com">x</a>`,
		},
		{
			name:  "javascript href dropped",
			input: `<a href="javascript:evil()">x</a>`,
			want:  "<a>x</a>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeNestedScript(t *testing.T) {
	got := Sanitize(`<div><p>keep</p><script>bad()</script></div>`)
	if strings.Contains(got, "script") || strings.Contains(got, "bad()") {
		t.Errorf("nested script must be removed, got %q", got)
	}
	if !strings.Contains(got, "<p>keep</p>") {
		t.Errorf("surrounding content must survive, got %q", got)
	}
}
