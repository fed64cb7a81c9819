package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir stands in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := Load()
	assert.Equal(t, DefaultFeedListURL, cfg.FeedListURL)
	assert.Equal(t, 10, cfg.FeedWorkers)
	assert.Equal(t, 50, cfg.ArticleWorkers)
	assert.Equal(t, 30, cfg.FetchTimeoutSeconds)
}

func TestLoadReadsConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("aggregator.yaml", []byte(
		"feed_workers: 4\narticle_workers: 16\nfeed_list_url: http://lists.example.com/feeds.opml\n",
	), 0o644))

	cfg := Load()
	assert.Equal(t, 4, cfg.FeedWorkers)
	assert.Equal(t, 16, cfg.ArticleWorkers)
	assert.Equal(t, "http://lists.example.com/feeds.opml", cfg.FeedListURL)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("aggregator.yaml", []byte(
		"feed_list_url: http://from-file.example.com/feeds.opml\n",
	), 0o644))
	t.Setenv("FEED_LIST_URL", "http://from-env.example.com/feeds.opml")

	cfg := Load()
	assert.Equal(t, "http://from-env.example.com/feeds.opml", cfg.FeedListURL)
}

func TestMalformedConfigFileIsIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("aggregator.yaml", []byte("{not yaml"), 0o644))

	cfg := Load()
	assert.Equal(t, 10, cfg.FeedWorkers)
}

func TestDotEnvFillsMissingVariables(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte(
		"# comment\nFEED_LIST_URL=http://dotenv.example.com/feeds.opml\n",
	), 0o644))
	// loadDotEnv never overrides an already-set variable, so the test
	// needs it absent; t.Setenv registers the restore before Unsetenv.
	t.Setenv("FEED_LIST_URL", "")
	os.Unsetenv("FEED_LIST_URL")

	cfg := Load()
	assert.Equal(t, "http://dotenv.example.com/feeds.opml", cfg.FeedListURL)
}
