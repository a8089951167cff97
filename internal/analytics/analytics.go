// Package analytics batch-transforms the activity log into per-day
// rollups and the time-windowed views (heatmap, calendar, trend) built
// from them. All functions are pure over their inputs; re-deriving on
// demand is cheap at this data volume.
package analytics

import (
	"math"
	"time"

	"github.com/foliotracker/folio/internal/domain"
)

// BookEntry is one book's accumulated contribution to a calendar day.
type BookEntry struct {
	BookID        string
	Title         string
	Type          domain.ActivityType
	ProgressDelta int
}

// Summary is the full batch rollup of the activity log.
type Summary struct {
	DailyPages map[string]int         // day -> estimated pages
	DailyBooks map[string][]BookEntry // day -> books touched

	TotalPagesMonth  int
	TotalPagesYear   int
	TotalPages30Days int

	TrendPercent float64 // last 30 days vs the 30 before

	BestDayPages int
	BestDayDate  string
}

// Engine computes analytics over an activity log.
type Engine struct {
	pageCounts   map[string]int
	defaultPages int
}

func NewEngine(pageCounts map[string]int, defaultPages int) *Engine {
	return &Engine{pageCounts: pageCounts, defaultPages: defaultPages}
}

func (e *Engine) pageCount(bookID string) int {
	if pages, ok := e.pageCounts[bookID]; ok {
		return pages
	}
	return e.defaultPages
}

// Compute rolls up the entire activity log. Daily page totals accumulate
// across repeated progress entries for the same day; per-day book entries
// merge by book, summing deltas and upgrading the event type (finished
// beats progress beats started, never downgrading).
func (e *Engine) Compute(activities []domain.Activity, today time.Time) Summary {
	sum := Summary{
		DailyPages: map[string]int{},
		DailyBooks: map[string][]BookEntry{},
	}

	for _, act := range activities {
		if act.Type == domain.ActivityProgress {
			pages := int(math.Round(float64(act.ProgressDelta) / 100 * float64(e.pageCount(act.BookID))))
			sum.DailyPages[act.Date] += pages
		}
		mergeBookEntry(sum.DailyBooks, act)
	}

	day := domain.Day(today)
	monthStart := domain.Day(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()))
	yearStart := domain.Day(time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()))
	last30Start := domain.Day(today.AddDate(0, 0, -29))
	prev30Start := domain.Day(today.AddDate(0, 0, -59))
	prev30End := domain.Day(today.AddDate(0, 0, -30))

	sum.TotalPagesMonth = sumRange(sum.DailyPages, monthStart, day)
	sum.TotalPagesYear = sumRange(sum.DailyPages, yearStart, day)
	sum.TotalPages30Days = sumRange(sum.DailyPages, last30Start, day)

	prev30 := sumRange(sum.DailyPages, prev30Start, prev30End)
	sum.TrendPercent = trend(prev30, sum.TotalPages30Days)

	for date, pages := range sum.DailyPages {
		switch {
		case pages > sum.BestDayPages:
			sum.BestDayPages = pages
			sum.BestDayDate = date
		case pages == sum.BestDayPages && (sum.BestDayDate == "" || date < sum.BestDayDate):
			// ties go to the earliest day
			sum.BestDayDate = date
		}
	}
	return sum
}

func mergeBookEntry(daily map[string][]BookEntry, act domain.Activity) {
	entries := daily[act.Date]
	for i, entry := range entries {
		if entry.BookID != act.BookID {
			continue
		}
		entries[i].ProgressDelta += act.ProgressDelta
		if act.Type.Rank() > entry.Type.Rank() {
			entries[i].Type = act.Type
		}
		return
	}
	daily[act.Date] = append(entries, BookEntry{
		BookID:        act.BookID,
		Title:         act.Title,
		Type:          act.Type,
		ProgressDelta: act.ProgressDelta,
	})
}

// sumRange totals daily pages over an inclusive day-string range.
func sumRange(daily map[string]int, start, end string) int {
	total := 0
	for date, pages := range daily {
		if date >= start && date <= end {
			total += pages
		}
	}
	return total
}

// trend computes the percent change between two consecutive 30-day
// windows. A previous window of zero means any current reading is "up
// 100%", and no reading at all is flat.
func trend(prev30, last30 int) float64 {
	if prev30 == 0 {
		if last30 > 0 {
			return 100
		}
		return 0
	}
	return float64(last30-prev30) / float64(prev30) * 100
}
