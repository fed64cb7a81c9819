// Package aggregate drives the two-tier crawl pipeline: a feed pool fans
// out over the feed list, each feed task fans out article tasks into a
// second pool, and the coordinator merges duplicate articles before
// flushing the result into the search index.
package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/newsweave/aggregator/internal/pool"
)

// Config sizes the two worker pools.
type Config struct {
	FeedWorkers    int
	ArticleWorkers int
}

// Deps are the external collaborators a run consumes. Archive may be nil.
type Deps struct {
	FeedList  FeedListSource
	Feeds     FeedSource
	Documents DocumentSource
	Index     SearchIndex
	Archive   Archiver
}

// Aggregator owns one crawl run's shared state: the URL claim set, the
// merge index, and the two pools. Runs are instance-scoped, so independent
// aggregators never interfere.
type Aggregator struct {
	deps Deps

	feedPool    *pool.Pool
	articlePool *pool.Pool

	seen   *urlSet
	merged *mergeIndex

	Stats Stats

	built atomic.Bool
}

// New constructs an aggregator with fresh pools and fresh shared state.
func New(cfg Config, deps Deps) *Aggregator {
	if cfg.FeedWorkers < 1 {
		cfg.FeedWorkers = 10
	}
	if cfg.ArticleWorkers < 1 {
		cfg.ArticleWorkers = 50
	}
	return &Aggregator{
		deps:        deps,
		feedPool:    pool.New(cfg.FeedWorkers),
		articlePool: pool.New(cfg.ArticleWorkers),
		seen:        newURLSet(),
		merged:      newMergeIndex(),
	}
}

// BuildIndex crawls every feed in the list and flushes the merged result
// into the search index. Failures below the feed-list level are non-fatal
// and isolated to their task; an unusable or empty feed list yields an
// empty index, not an error. BuildIndex is idempotent: only the first call
// does any work.
func (a *Aggregator) BuildIndex(ctx context.Context) {
	if !a.built.CompareAndSwap(false, true) {
		return
	}
	defer a.shutdown()

	feeds, err := a.deps.FeedList.Parse(ctx)
	if err != nil {
		slog.Error("feed list unusable", "err", err)
		return
	}
	if len(feeds) == 0 {
		slog.Info("feed list is well-formed but empty")
		return
	}

	for feedURL, feedTitle := range feeds {
		a.feedPool.Submit(func() { a.fetchFeed(ctx, feedURL, feedTitle) })
	}

	// Article tasks are submitted from inside feed tasks, so draining
	// the article pool is a global barrier only once the feed pool has
	// fully drained. The order of these two calls is load-bearing.
	a.feedPool.Drain()
	a.articlePool.Drain()

	a.flush(ctx)
}

// fetchFeed claims a feed URL, parses the feed, and fans its articles out
// into the article pool. It never waits for article tasks itself.
func (a *Aggregator) fetchFeed(ctx context.Context, feedURL, feedTitle string) {
	if !a.seen.claim(feedURL) {
		a.Stats.Duplicates.Add(1)
		return
	}

	articles, err := a.deps.Feeds.Parse(ctx, feedURL)
	if err != nil {
		slog.Warn("skipping feed", "url", feedURL, "err", err)
		a.Stats.FeedsFailed.Add(1)
		return
	}
	if len(articles) == 0 {
		slog.Info("feed is well-formed but empty", "url", feedURL, "title", feedTitle)
		return
	}
	a.Stats.FeedsFetched.Add(1)
	slog.Debug("feed parsed", "url", feedURL, "title", feedTitle, "articles", len(articles))

	for _, article := range articles {
		a.articlePool.Submit(func() { a.fetchArticle(ctx, article) })
	}
}

// fetchArticle claims an article URL, tokenizes the document, and folds it
// into the merge index.
func (a *Aggregator) fetchArticle(ctx context.Context, article Article) {
	if !a.seen.claim(article.URL) {
		a.Stats.Duplicates.Add(1)
		return
	}

	tokens, err := a.deps.Documents.Parse(ctx, article.URL)
	if err != nil {
		slog.Warn("skipping article", "url", article.URL, "err", err)
		a.Stats.ArticlesFailed.Add(1)
		return
	}
	a.Stats.ArticlesFetched.Add(1)

	sort.Strings(tokens)
	if a.merged.record(article, tokens) {
		slog.Debug("merged duplicate article", "title", article.Title, "url", article.URL)
	}
}

// flush runs single-threaded after both drain barriers: no task can still
// be writing, so the merge index is read without its lock.
func (a *Aggregator) flush(ctx context.Context) {
	entries := a.merged.snapshot()

	batch := make([]IndexedArticle, 0, len(entries))
	for _, e := range entries {
		a.deps.Index.Add(e.article, e.tokens)
		batch = append(batch, IndexedArticle{Article: e.article, Tokens: e.tokens})
	}
	a.Stats.Merged.Store(int64(len(entries)))

	if a.deps.Archive != nil {
		if err := a.deps.Archive.StoreBatch(ctx, batch); err != nil {
			slog.Error("archive store failed", "err", err, "count", len(batch))
		}
	}

	slog.Info("crawl complete",
		"feeds_fetched", a.Stats.FeedsFetched.Load(),
		"feeds_failed", a.Stats.FeedsFailed.Load(),
		"articles_fetched", a.Stats.ArticlesFetched.Load(),
		"articles_failed", a.Stats.ArticlesFailed.Load(),
		"duplicates", a.Stats.Duplicates.Load(),
		"indexed", a.Stats.Merged.Load(),
	)
}

func (a *Aggregator) shutdown() {
	a.feedPool.Close()
	a.articlePool.Close()
}
