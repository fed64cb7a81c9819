package feed

import (
	"context"

	"github.com/mmcdole/gofeed"

	"github.com/newsweave/aggregator/internal/fetch"
)

// ListSource resolves a feed-list document into feed URL → feed title.
// Two formats are accepted: an OPML subscription list, and an RSS/Atom
// document whose items link to the feeds themselves.
type ListSource struct {
	client *fetch.Client
	uri    string
}

func NewListSource(client *fetch.Client, uri string) *ListSource {
	return &ListSource{client: client, uri: uri}
}

func (s *ListSource) Parse(ctx context.Context) (map[string]string, error) {
	body, err := s.client.Get(ctx, s.uri)
	if err != nil {
		return nil, &ListError{URI: s.uri, Err: err}
	}

	if feeds, err := parseOPML(body); err == nil {
		return feeds, nil
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &ListError{URI: s.uri, Err: err}
	}
	feeds := make(map[string]string, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		feeds[item.Link] = item.Title
	}
	return feeds, nil
}
