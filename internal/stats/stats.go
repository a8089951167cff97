// Package stats provides the read-side dashboard computations: live-list
// counters, page estimates, velocity, and the formatted activity feed.
// Nothing here mutates the store.
package stats

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/foliotracker/folio/internal/domain"
	"github.com/foliotracker/folio/internal/streak"
)

// Aggregator answers dashboard queries over the store and the live book
// list supplied by the caller. Counters always reflect the live list, not
// the snapshot history, so shelf edits show up immediately.
type Aggregator struct {
	store        domain.Store
	defaultPages int
	logger       *slog.Logger
}

func NewAggregator(store domain.Store, defaultPages int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, defaultPages: defaultPages, logger: logger}
}

// Summary holds the dashboard counters.
type Summary struct {
	Total      int
	Reading    int
	Completed  int
	NotStarted int
}

// Summarize classifies the live book list into dashboard counters.
func (a *Aggregator) Summarize(books []domain.Observation) Summary {
	var sum Summary
	sum.Total = len(books)
	for _, b := range books {
		switch domain.ClassifyBook(b.Progress, b.Status) {
		case domain.ReadStateCompleted:
			sum.Completed++
		case domain.ReadStateReading:
			sum.Reading++
		default:
			sum.NotStarted++
		}
	}
	return sum
}

// pageCount resolves a book's page count: manual override first, then the
// configured global estimate.
func (a *Aggregator) pageCount(bookID string) int {
	if pages, ok := a.store.PageCount(bookID); ok {
		return pages
	}
	return a.defaultPages
}

// EstimatedPagesToday converts today's activity deltas into pages.
// A started activity landing at 100% is a pre-existing completed book
// entering tracking for the first time, not pages read today, and is
// excluded.
func (a *Aggregator) EstimatedPagesToday(today time.Time) int {
	pages := 0
	for _, act := range a.store.ActivitiesOn(domain.Day(today)) {
		count := a.pageCount(act.BookID)
		switch act.Type {
		case domain.ActivityProgress:
			pages += int(math.Round(float64(act.ProgressDelta) / 100 * float64(count)))
		case domain.ActivityStarted:
			if act.NewProgress < 100 {
				pages += int(math.Round(float64(act.NewProgress) / 100 * float64(count)))
			}
		}
	}
	return pages
}

// PagesInWindow estimates pages read over a trailing window ending today,
// inclusive. Accumulation stays in float; only the result rounds.
func (a *Aggregator) PagesInWindow(today time.Time, days int) int {
	total := 0.0
	for _, act := range a.store.ActivitiesSince(domain.Day(today), days) {
		if act.ProgressDelta <= 0 {
			continue
		}
		total += float64(act.ProgressDelta) / 100 * float64(a.pageCount(act.BookID))
	}
	return int(math.Round(total))
}

// DailyVelocity is the average pages per day over a trailing window.
func (a *Aggregator) DailyVelocity(today time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	return float64(a.PagesInWindow(today, days)) / float64(days)
}

// BooksFinishedInYear counts distinct books with a finished activity in
// the given year.
func (a *Aggregator) BooksFinishedInYear(year int) int {
	prefix := fmt.Sprintf("%04d-", year)
	seen := map[string]bool{}
	for _, act := range a.store.AllActivities() {
		if act.Type == domain.ActivityFinished && len(act.Date) >= len(prefix) && act.Date[:len(prefix)] == prefix {
			seen[act.BookID] = true
		}
	}
	return len(seen)
}

// Feed returns human-readable activity lines, newest first. Started
// entries at 100% are filtered for the same reason EstimatedPagesToday
// skips them.
func (a *Aggregator) Feed(limit int) []string {
	acts := a.store.AllActivities()

	kept := make([]domain.Activity, 0, len(acts))
	for _, act := range acts {
		if act.Type == domain.ActivityStarted && act.NewProgress >= 100 {
			continue
		}
		kept = append(kept, act)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		ti, tj := kept[i].Timestamp, kept[j].Timestamp
		if ti.IsZero() || tj.IsZero() {
			return kept[i].Date > kept[j].Date
		}
		return ti.After(tj)
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	lines := make([]string, 0, len(kept))
	for _, act := range kept {
		lines = append(lines, fmt.Sprintf("%s  %s", act.Date, act.Label()))
	}
	return lines
}

// StatusLine renders the one-line status-bar summary.
func (a *Aggregator) StatusLine(today time.Time) string {
	s := a.store.Streak()
	return fmt.Sprintf("%s · %d pages today", streak.Describe(s), a.EstimatedPagesToday(today))
}
