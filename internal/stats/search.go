package stats

import (
	"sort"

	"github.com/foliotracker/folio/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FindBooks fuzzy-matches a query against live book titles, best match
// first. Used by the page-count entry flow to locate a book without an
// exact title.
func FindBooks(query string, books []domain.Observation) []domain.Observation {
	if query == "" {
		return nil
	}

	titles := make([]string, len(books))
	byTitle := make(map[string][]domain.Observation, len(books))
	for i, b := range books {
		titles[i] = b.Title
		byTitle[b.Title] = append(byTitle[b.Title], b)
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Sort(matches)

	var out []domain.Observation
	seen := map[string]bool{}
	for _, m := range matches {
		if seen[m.Target] {
			continue
		}
		seen[m.Target] = true
		out = append(out, byTitle[m.Target]...)
	}
	return out
}
