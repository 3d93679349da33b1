package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var droppedTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"form":   true,
}

// Sanitize strips active content from a model-generated HTML fragment so
// it can be embedded in an email body. Script-like subtrees are removed,
// event-handler and javascript: attributes are dropped, and the rest is
// re-rendered. The generated text is treated as untrusted: input that
// fails to parse comes back fully escaped.
func Sanitize(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return html.EscapeString(fragment)
	}

	// ParseFragment hands back the top-level nodes detached from any
	// parent, so they are filtered here; clean only sees descendants.
	var sb strings.Builder
	for _, n := range nodes {
		if n.Type == html.ElementNode && droppedTags[n.Data] {
			continue
		}
		clean(n)
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

func clean(n *html.Node) {
	var next *html.Node
	for child := n.FirstChild; child != nil; child = next {
		next = child.NextSibling
		if child.Type == html.ElementNode && droppedTags[child.Data] {
			n.RemoveChild(child)
			continue
		}
		clean(child)
	}

	if n.Type != html.ElementNode {
		return
	}

	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "src") &&
			strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}
