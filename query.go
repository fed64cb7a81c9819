package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/newsweave/aggregator/internal/aggregate"
)

const maxMatchesToShow = 15

// queryLoop reads search terms from in and prints matching articles until
// an empty line or EOF ends the session.
func queryLoop(in io.Reader, out io.Writer, ix aggregate.SearchIndex) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter a search term [or just hit <enter> to quit]: ")
		if !scanner.Scan() {
			return
		}
		term := strings.TrimSpace(scanner.Text())
		if term == "" {
			return
		}

		matches := ix.MatchingArticles(term)
		if len(matches) == 0 {
			fmt.Fprintf(out, "Ah, we didn't find the term %q. Try again.\n", term)
			continue
		}

		plural := "s"
		if len(matches) == 1 {
			plural = ""
		}
		fmt.Fprintf(out, "That term appears in %d article%s.", len(matches), plural)
		switch {
		case len(matches) > maxMatchesToShow:
			fmt.Fprintf(out, "  Here are the top %d of them:\n", maxMatchesToShow)
		case len(matches) > 1:
			fmt.Fprintln(out, "  Here they are:")
		default:
			fmt.Fprintln(out, "  Here it is:")
		}

		for i, match := range matches {
			if i == maxMatchesToShow {
				break
			}
			times := "times"
			if match.Count == 1 {
				times = "time"
			}
			fmt.Fprintf(out, "  %2d.) %q [appears %d %s].\n", i+1, match.Article.Title, match.Count, times)
			fmt.Fprintf(out, "       %q\n", match.Article.URL)
		}
	}
}
