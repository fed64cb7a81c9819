package feed

import "fmt"

// ListError reports a feed list that could not be fetched or parsed. The
// whole run short-circuits on it.
type ListError struct {
	URI string
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("feed list %s: %v", e.URI, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// ParseError reports a single feed that could not be fetched or parsed.
// Other feeds are unaffected.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
