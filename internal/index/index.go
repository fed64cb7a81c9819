// Package index implements an in-memory inverted occurrence index over
// articles.
package index

import (
	"sort"
	"strings"

	"github.com/newsweave/aggregator/internal/aggregate"
)

// Index maps tokens to the articles containing them with per-article
// occurrence counts. The aggregator writes it single-threaded at flush
// time and the query loop reads it afterwards, so no lock is carried.
type Index struct {
	postings map[string]map[aggregate.Article]int
}

func New() *Index {
	return &Index{postings: make(map[string]map[aggregate.Article]int)}
}

// Add records every token of one article.
func (ix *Index) Add(article aggregate.Article, tokens []string) {
	for _, token := range tokens {
		m, ok := ix.postings[token]
		if !ok {
			m = make(map[aggregate.Article]int)
			ix.postings[token] = m
		}
		m[article]++
	}
}

// MatchingArticles returns every article containing term, most occurrences
// first. Ties order by title, then URL, so results are deterministic. The
// tokenizer lowercases on extraction, so the term is lowercased here to
// match.
func (ix *Index) MatchingArticles(term string) []aggregate.Match {
	postings := ix.postings[strings.ToLower(term)]

	matches := make([]aggregate.Match, 0, len(postings))
	for article, count := range postings {
		matches = append(matches, aggregate.Match{Article: article, Count: count})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Count != matches[j].Count {
			return matches[i].Count > matches[j].Count
		}
		if matches[i].Article.Title != matches[j].Article.Title {
			return matches[i].Article.Title < matches[j].Article.Title
		}
		return matches[i].Article.URL < matches[j].Article.URL
	})
	return matches
}
