// Package htmlconv converts the HTML produced by a document export into
// Markdown.
package htmlconv

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codefionn/docsmcp/internal/logger"
	"golang.org/x/net/html"
)

var (
	tagPattern        = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)\b[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
)

// minTags is how many tags a fragment without a document prologue needs
// before it is treated as HTML.
const minTags = 3

// dropped elements carry no document text.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"meta":     true,
	"link":     true,
	"head":     true,
	"title":    true,
	"iframe":   true,
	"svg":      true,
}

// IsHTML reports whether input looks like HTML rather than text that
// happens to contain an angle bracket.
func IsHTML(input string) bool {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		return true
	}

	tags := len(tagPattern.FindAllString(input, -1))
	if tags >= minTags {
		return true
	}
	if tags < 2 {
		return false
	}
	for _, marker := range []string{"<body", "<div", "<table", "<ul>", "<ol>", "<h1", "<h2", "<p>"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ToMarkdown converts exported HTML to Markdown. Input that is not HTML is
// returned unchanged.
func ToMarkdown(input string) (string, error) {
	if !IsHTML(input) {
		return input, nil
	}

	cleaned, err := clean(input)
	if err != nil {
		logger.Warn("htmlconv: cleaning failed, converting raw input: %v", err)
		cleaned = input
	}

	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	md = strings.TrimSpace(blankLinesPattern.ReplaceAllString(md, "\n\n"))
	logger.Debug("htmlconv: %d bytes of HTML became %d bytes of markdown", len(input), len(md))
	return md, nil
}

// clean parses input, keeps only the body, strips non-text elements and
// rewrites tracking redirects back to their targets.
func clean(input string) (string, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return "", err
	}
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	prune(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && dropped[strings.ToLower(c.Data)] {
			n.RemoveChild(c)
		} else {
			prune(c)
		}
		c = next
	}
	if n.Type == html.ElementNode && n.Data == "a" {
		for i, attr := range n.Attr {
			if attr.Key == "href" {
				n.Attr[i].Val = unwrapRedirect(attr.Val)
			}
		}
	}
}

// unwrapRedirect turns "https://www.google.com/url?q=TARGET&sa=..." into
// TARGET. Other URLs are returned as-is.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path != "/url" || !strings.HasSuffix(u.Host, "google.com") {
		return href
	}
	if q := u.Query().Get("q"); q != "" {
		return q
	}
	return href
}
