// Package document turns article pages into token streams.
package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsweave/aggregator/internal/fetch"
)

const maxTokens = 50_000

const tokenCutset = ".,;:!?\"'()[]{}<>"

// ParseError reports an article page that could not be fetched or parsed.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Source fetches an article page and tokenizes its visible text.
type Source struct {
	client *fetch.Client
}

func NewSource(client *fetch.Client) *Source {
	return &Source{client: client}
}

func (s *Source) Parse(ctx context.Context, url string) ([]string, error) {
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	tokens, err := Tokenize(body)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	return tokens, nil
}

// Tokenize extracts the visible text of an HTML document as lowercased
// word tokens in document order, capped at maxTokens. Script, style, and
// chrome elements are stripped first.
func Tokenize(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()
	text := doc.Find("body").Text()

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.ToLower(strings.Trim(field, tokenCutset))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == maxTokens {
			break
		}
	}
	return tokens, nil
}
