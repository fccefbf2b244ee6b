package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/finlane/tutordock/internal/domain"
)

// Catalog is the read-only set of tutorial videos the product ships. It is
// built once at startup; lookups and searches never mutate it.
type Catalog struct {
	tutorials []domain.Tutorial
	byID      map[string]int
	index     *filterIndex
}

// New creates a catalog over the given tutorials.
func New(tutorials []domain.Tutorial) *Catalog {
	c := &Catalog{
		tutorials: append([]domain.Tutorial(nil), tutorials...),
		byID:      make(map[string]int, len(tutorials)),
	}
	for i, t := range c.tutorials {
		c.byID[t.ID] = i
	}
	c.index = newFilterIndex(c.tutorials)
	return c
}

// All returns every tutorial in catalog order.
func (c *Catalog) All() []domain.Tutorial {
	out := make([]domain.Tutorial, len(c.tutorials))
	copy(out, c.tutorials)
	return out
}

// Get looks a tutorial up by ID.
func (c *Catalog) Get(id string) (domain.Tutorial, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Tutorial{}, domain.ErrTutorialNotFound
	}
	return c.tutorials[i], nil
}

// HomeRoutes returns the route prefixes that host an inline tutorial slot,
// deduplicated, for seeding the navigation watcher's allowlist.
func (c *Catalog) HomeRoutes() []string {
	seen := make(map[string]bool)
	var routes []string
	for _, t := range c.tutorials {
		if t.HomeRoute == "" || seen[t.HomeRoute] {
			continue
		}
		seen[t.HomeRoute] = true
		routes = append(routes, t.HomeRoute)
	}
	return routes
}

// Filter returns tutorials whose titles rank-match the query, best first.
// An empty query returns the full catalog.
func (c *Catalog) Filter(query string) []domain.Tutorial {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}

	ranks := fuzzy.RankFindNormalizedFold(query, c.index.titles)
	sort.Sort(ranks)

	out := make([]domain.Tutorial, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, c.tutorials[r.OriginalIndex])
	}
	return out
}
