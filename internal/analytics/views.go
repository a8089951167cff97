package analytics

import (
	"time"

	"github.com/foliotracker/folio/internal/domain"
)

// HeatLevel is the discrete color bucket for one heatmap cell.
type HeatLevel int

const (
	HeatNone HeatLevel = iota // 0 pages
	HeatLow                   // 1-14
	HeatMid                   // 15-29
	HeatHigh                  // 30-49
	HeatMax                   // 50+
)

// LevelFor buckets a daily page total. Boundary values are part of the
// contract: 15 and 30 and 50 each start a new bucket.
func LevelFor(pages int) HeatLevel {
	switch {
	case pages >= 50:
		return HeatMax
	case pages >= 30:
		return HeatHigh
	case pages >= 15:
		return HeatMid
	case pages > 0:
		return HeatLow
	default:
		return HeatNone
	}
}

// HeatmapCell is one calendar day of the year view.
type HeatmapCell struct {
	Date  string
	Pages int
	Level HeatLevel
}

// Heatmap returns a cell for every calendar day of the year, Jan 1
// through Dec 31, zero-filled for days with no recorded pages.
func (e *Engine) Heatmap(daily map[string]int, year int) []HeatmapCell {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)

	var cells []HeatmapCell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := domain.Day(d)
		pages := daily[date]
		cells = append(cells, HeatmapCell{Date: date, Pages: pages, Level: LevelFor(pages)})
	}
	return cells
}

// CalendarDay is one cell of the month view.
type CalendarDay struct {
	Day   int
	Date  string
	Pages int
	Books []BookEntry
}

// Calendar returns every day 1..daysInMonth for the given month with its
// book entries and page total attached.
func (e *Engine) Calendar(sum Summary, year int, month time.Month) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	days := make([]CalendarDay, 0, daysInMonth)
	for i := 1; i <= daysInMonth; i++ {
		date := domain.Day(time.Date(year, month, i, 0, 0, 0, 0, time.Local))
		days = append(days, CalendarDay{
			Day:   i,
			Date:  date,
			Pages: sum.DailyPages[date],
			Books: sum.DailyBooks[date],
		})
	}
	return days
}
