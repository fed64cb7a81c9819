package aggregate

import (
	"net/url"
	"sync"
)

// mergeKey identifies one logical article across mirrors: the same title
// served from the same host.
type mergeKey struct {
	title string
	host  string
}

type mergeEntry struct {
	article Article
	tokens  []string // sorted
}

// mergeIndex accumulates articles keyed by (title, host) while article
// tasks are in flight. It has its own lock, independent of the URL set's;
// no code path holds both.
type mergeIndex struct {
	mu      sync.Mutex
	entries map[mergeKey]mergeEntry
}

func newMergeIndex() *mergeIndex {
	return &mergeIndex{entries: make(map[mergeKey]mergeEntry)}
}

// record folds one article into the index and reports whether it merged
// with an earlier duplicate. The stored URL is always the
// lexicographically smallest seen for the key, and the stored tokens the
// intersection of every duplicate's token set. Intersection and minimum
// are both commutative and associative, so the result is independent of
// the order in which duplicates complete. sortedTokens must be sorted.
func (m *mergeIndex) record(article Article, sortedTokens []string) bool {
	key := mergeKey{title: article.Title, host: hostOf(article.URL)}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.entries[key]
	if !ok {
		m.entries[key] = mergeEntry{article: article, tokens: sortedTokens}
		return false
	}
	if existing.article.URL < article.URL {
		article.URL = existing.article.URL
	}
	m.entries[key] = mergeEntry{
		article: article,
		tokens:  intersect(existing.tokens, sortedTokens),
	}
	return true
}

// snapshot returns the accumulated entries. Valid only once both pools
// have drained and no writer remains.
func (m *mergeIndex) snapshot() []mergeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]mergeEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	return entries
}

// intersect linearly merges two sorted token lists, keeping each match
// once per occurrence pair. Sorting upstream is what makes this a single
// pass.
func intersect(a, b []string) []string {
	out := make([]string, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// hostOf returns the host component of rawURL, or the raw string when it
// cannot be parsed, so unparseable URLs still get a stable key.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
