// Package feed parses feed lists and individual RSS/Atom feeds.
package feed

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/newsweave/aggregator/internal/aggregate"
	"github.com/newsweave/aggregator/internal/fetch"
)

// Source fetches and parses a single RSS or Atom feed.
type Source struct {
	client *fetch.Client
}

func NewSource(client *fetch.Client) *Source {
	return &Source{client: client}
}

// Parse returns the articles a feed references, in feed order. An empty
// but well-formed feed yields an empty, non-nil slice. Items without a
// usable link fall back to a URL-shaped GUID or are skipped.
func (s *Source) Parse(ctx context.Context, url string) ([]aggregate.Article, error) {
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	articles := make([]aggregate.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := item.Link
		if link == "" && strings.HasPrefix(item.GUID, "http") {
			link = item.GUID
		}
		if link == "" {
			continue
		}
		articles = append(articles, aggregate.Article{Title: item.Title, URL: link})
	}
	return articles, nil
}
