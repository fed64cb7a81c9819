package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsweave/aggregator/internal/feed"
	"github.com/newsweave/aggregator/internal/fetch"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test RSS</title>
    <item>
      <title>First Article</title>
      <link>https://example.com/first</link>
    </item>
    <item>
      <title>Second Article</title>
      <link>https://example.com/second</link>
    </item>
  </channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom</title>
  <entry>
    <title>Alpha Entry</title>
    <link href="https://example.com/alpha"/>
    <updated>2024-01-01T12:00:00Z</updated>
  </entry>
</feed>`

const emptyFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Empty Feed</title>
  </channel>
</rss>`

const guidOnlyFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>GUID Feed</title>
    <item>
      <title>Permalink Item</title>
      <guid>https://example.com/from-guid</guid>
    </item>
    <item>
      <title>Opaque Item</title>
      <guid isPermaLink="false">not-a-url</guid>
    </item>
  </channel>
</rss>`

const feedListRSSFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>My Feeds</title>
    <item>
      <title>Tech Feed</title>
      <link>https://tech.example.com/rss</link>
    </item>
    <item>
      <title>News Feed</title>
      <link>https://news.example.com/rss</link>
    </item>
  </channel>
</rss>`

const opmlFixture = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="Folder">
      <outline text="Nested Feed" title="Nested Feed" type="rss" xmlUrl="https://nested.example.com/rss"/>
    </outline>
    <outline text="Top Feed" type="rss" xmlUrl="https://top.example.com/rss"/>
  </body>
</opml>`

func testClient() *fetch.Client {
	return fetch.NewClient(5*time.Second, 0, "aggregator-test/1.0")
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSourceParsesRSS(t *testing.T) {
	srv := serve(t, rssFixture)
	articles, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "First Article", articles[0].Title)
	assert.Equal(t, "https://example.com/first", articles[0].URL)
	assert.Equal(t, "Second Article", articles[1].Title)
}

func TestSourceParsesAtom(t *testing.T) {
	srv := serve(t, atomFixture)
	articles, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "Alpha Entry", articles[0].Title)
	assert.Equal(t, "https://example.com/alpha", articles[0].URL)
}

func TestSourceEmptyFeedIsNotAnError(t *testing.T) {
	srv := serve(t, emptyFeedFixture)
	articles, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestSourceFallsBackToURLShapedGUID(t *testing.T) {
	srv := serve(t, guidOnlyFixture)
	articles, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/from-guid", articles[0].URL)
}

func TestSourceMalformedFeedReturnsParseError(t *testing.T) {
	srv := serve(t, "this is not a feed")
	_, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)

	var parseErr *feed.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, srv.URL, parseErr.URL)
}

func TestSourceHTTPFailureReturnsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := feed.NewSource(testClient()).Parse(context.Background(), srv.URL)

	var parseErr *feed.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestListSourceParsesRSSList(t *testing.T) {
	srv := serve(t, feedListRSSFixture)
	feeds, err := feed.NewListSource(testClient(), srv.URL).Parse(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"https://tech.example.com/rss": "Tech Feed",
		"https://news.example.com/rss": "News Feed",
	}, feeds)
}

func TestListSourceParsesOPML(t *testing.T) {
	srv := serve(t, opmlFixture)
	feeds, err := feed.NewListSource(testClient(), srv.URL).Parse(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"https://nested.example.com/rss": "Nested Feed",
		"https://top.example.com/rss":    "Top Feed",
	}, feeds)
}

func TestListSourceMalformedListReturnsListError(t *testing.T) {
	srv := serve(t, "garbage")
	_, err := feed.NewListSource(testClient(), srv.URL).Parse(context.Background())

	var listErr *feed.ListError
	require.ErrorAs(t, err, &listErr)
	assert.Equal(t, srv.URL, listErr.URI)
}

func TestListSourceUnreachableReturnsListError(t *testing.T) {
	srv := serve(t, feedListRSSFixture)
	url := srv.URL
	srv.Close()

	_, err := feed.NewListSource(testClient(), url).Parse(context.Background())

	var listErr *feed.ListError
	require.ErrorAs(t, err, &listErr)
}
