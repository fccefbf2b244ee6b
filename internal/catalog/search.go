package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/finlane/tutordock/internal/domain"
)

// Match is a search result with the character positions that matched, for
// highlighting in pickers.
type Match struct {
	Tutorial       domain.Tutorial
	MatchedIndexes []int
	Score          int
}

// filterIndex implements fuzzy.Source over tutorial titles so searches run
// without per-query allocation of the title list.
type filterIndex struct {
	titles      []string
	lowerTitles []string
}

func newFilterIndex(tutorials []domain.Tutorial) *filterIndex {
	idx := &filterIndex{
		titles:      make([]string, len(tutorials)),
		lowerTitles: make([]string, len(tutorials)),
	}
	for i, t := range tutorials {
		idx.titles[i] = t.Title
		idx.lowerTitles[i] = strings.ToLower(t.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *filterIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of titles (implements fuzzy.Source)
func (idx *filterIndex) Len() int { return len(idx.lowerTitles) }

// Search fuzzy-matches the query against tutorial titles and returns matches
// with highlight positions, best first. An empty query returns nil.
func (c *Catalog) Search(query string) []Match {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	results := fuzzy.FindFrom(query, c.index)
	out := make([]Match, 0, len(results))
	for _, r := range results {
		out = append(out, Match{
			Tutorial:       c.tutorials[r.Index],
			MatchedIndexes: r.MatchedIndexes,
			Score:          r.Score,
		})
	}
	return out
}
