package web

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// Ensure URLSource implements the interface.
var _ driven.DocumentSource = (*URLSource)(nil)

// URLSource is a single web page fetched when extracted.
// HTML is reduced to its main article text.
type URLSource struct {
	rawURL string
	client *Client
}

// NewURLSource creates a source for rawURL.
func NewURLSource(rawURL string, client *Client) *URLSource {
	return &URLSource{
		rawURL: rawURL,
		client: client,
	}
}

// Location returns the URL as given.
func (s *URLSource) Location() string {
	return s.rawURL
}

// Kind returns the origin type.
func (s *URLSource) Kind() domain.SourceKind {
	return domain.SourceKindURL
}

// Extract fetches the page and returns its text.
func (s *URLSource) Extract(ctx context.Context) (string, error) {
	target, err := parseHTTPURL(s.rawURL)
	if err != nil {
		return "", err
	}

	resp, err := s.client.fetch(ctx, target)
	if err != nil {
		return "", err
	}

	if resp.isHTML() {
		text, err := s.client.article.Extract(ctx, resp.body, resp.url.String())
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", s.rawURL, err)
		}
		return text, nil
	}
	return s.client.extract(ctx, resp, s.rawURL)
}
