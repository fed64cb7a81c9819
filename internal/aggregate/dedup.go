package aggregate

import (
	"sync"

	"github.com/PuerkitoBio/purell"
)

// claimFlags is deliberately conservative: only spellings that cannot
// change what a server returns are folded together.
const claimFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment

// urlSet is the set of URLs already claimed during a run. Feed URLs and
// article URLs share the one namespace.
type urlSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

// claim records rawURL and reports whether this caller was the first to do
// so. The test and the insert happen under one lock, so of any number of
// racing claimants exactly one wins. Claims are keyed on a canonicalized
// form; URLs purell cannot parse are keyed verbatim.
func (s *urlSet) claim(rawURL string) bool {
	key, err := purell.NormalizeURLString(rawURL, claimFlags)
	if err != nil {
		key = rawURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}
