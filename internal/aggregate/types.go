package aggregate

import (
	"context"
	"sync/atomic"
)

// Article is one item discovered in a feed. Articles are values: they are
// copied into tasks and never shared by pointer across workers.
type Article struct {
	Title string
	URL   string
}

// Match pairs an article with the number of times a queried term occurs
// in it.
type Match struct {
	Article Article
	Count   int
}

// IndexedArticle is one merged entry as handed to the archive.
type IndexedArticle struct {
	Article Article
	Tokens  []string
}

// FeedListSource resolves the configured feed-list URI into a mapping of
// feed URL to feed title.
type FeedListSource interface {
	Parse(ctx context.Context) (map[string]string, error)
}

// FeedSource fetches and parses a single feed into its articles.
type FeedSource interface {
	Parse(ctx context.Context, url string) ([]Article, error)
}

// DocumentSource fetches an article page and returns its token stream.
type DocumentSource interface {
	Parse(ctx context.Context, url string) ([]string, error)
}

// SearchIndex receives the merged articles and answers term queries.
type SearchIndex interface {
	Add(article Article, tokens []string)
	MatchingArticles(term string) []Match
}

// Archiver persists merged articles somewhere durable. Optional.
type Archiver interface {
	StoreBatch(ctx context.Context, entries []IndexedArticle) error
}

// Stats counts pipeline progress across one run.
type Stats struct {
	FeedsFetched    atomic.Int64
	FeedsFailed     atomic.Int64
	ArticlesFetched atomic.Int64
	ArticlesFailed  atomic.Int64
	Duplicates      atomic.Int64
	Merged          atomic.Int64
}
