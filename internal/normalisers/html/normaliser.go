package html

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	nethtml "golang.org/x/net/html"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

// boilerplate lists elements whose text never belongs to page content.
const boilerplate = "script, style, noscript, nav, footer, header, aside"

// contentSelectors are tried in order; the first match wins.
var contentSelectors = []string{"main", "article", "div#content"}

// Normaliser extracts readable text from HTML.
type Normaliser struct {
	articleFirst bool
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithArticleExtraction makes readability's article extraction the first choice,
// with the content-area cleaner as fallback. Suited to single article pages.
func WithArticleExtraction() Option {
	return func(n *Normaliser) {
		n.articleFirst = true
	}
}

// New creates a new HTML normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Extract returns the page's content text with whitespace collapsed to single spaces.
func (n *Normaliser) Extract(_ context.Context, content []byte, location string) (string, error) {
	if n.articleFirst {
		if text := articleText(content, location); text != "" {
			return text, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse html %s: %w", domain.ErrExtractionFailed, location, err)
	}
	if text := CleanText(doc); text != "" {
		return text, nil
	}

	if !n.articleFirst {
		if text := articleText(content, location); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: no text in %s", domain.ErrExtractionFailed, location)
}

// articleText runs readability over the page, returning "" when it finds no article.
func articleText(content []byte, location string) string {
	pageURL, err := url.Parse(location)
	if err != nil {
		pageURL = nil
	}
	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(article.TextContent), " ")
}

// CleanText strips boilerplate from doc and returns the text of its content area.
// doc is modified.
func CleanText(doc *goquery.Document) string {
	doc.Find(boilerplate).Remove()

	for _, sel := range contentSelectors {
		if main := doc.Find(sel).First(); main.Length() > 0 {
			return joinText(main)
		}
	}
	return joinText(doc.Find("body").First())
}

// joinText collects every text node under sel in document order, trimmed and
// joined with single spaces.
func joinText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.Join(parts, " ")
}
