// Package config loads runtime settings from defaults, an optional YAML
// file, and the environment, in increasing precedence.
package config

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFeedListURL is the bundled feed list used when -u is omitted.
const DefaultFeedListURL = "feeds/small-feed.opml"

const configFile = "aggregator.yaml"

type Config struct {
	FeedListURL         string  `yaml:"feed_list_url"`
	FeedWorkers         int     `yaml:"feed_workers"`
	ArticleWorkers      int     `yaml:"article_workers"`
	FetchTimeoutSeconds int     `yaml:"fetch_timeout_seconds"`
	RatePerSecond       float64 `yaml:"rate_per_second"`
	UserAgent           string  `yaml:"user_agent"`
	ArchiveDBURL        string  `yaml:"archive_db_url"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Load builds the effective configuration. A missing config file is fine;
// a malformed one is logged and ignored.
func Load() Config {
	loadDotEnv()

	cfg := Config{
		FeedListURL:         DefaultFeedListURL,
		FeedWorkers:         10,
		ArticleWorkers:      50,
		FetchTimeoutSeconds: 30,
		RatePerSecond:       8,
		UserAgent:           "newsweave-aggregator/1.0",
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			slog.Warn("ignoring malformed config file", "file", configFile, "err", err)
		}
	}

	if v := getEnv("FEED_LIST_URL", ""); v != "" {
		cfg.FeedListURL = v
	}
	if v := getEnv("ARCHIVE_DB_URL", ""); v != "" {
		cfg.ArchiveDBURL = v
	}
	if v := getEnv("USER_AGENT", ""); v != "" {
		cfg.UserAgent = v
	}

	if cfg.FeedWorkers < 1 {
		cfg.FeedWorkers = 10
	}
	if cfg.ArticleWorkers < 1 {
		cfg.ArticleWorkers = 50
	}
	if cfg.FetchTimeoutSeconds < 1 {
		cfg.FetchTimeoutSeconds = 30
	}
	return cfg
}

func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(strings.TrimSpace(k)); !exists {
			os.Setenv(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
