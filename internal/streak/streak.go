// Package streak maintains the consecutive-day reading state.
package streak

import (
	"fmt"
	"time"

	"github.com/foliotracker/folio/internal/domain"
)

// Advance applies one sync cycle's outcome to the streak state.
// hasReadToday is true iff the cycle produced at least one activity dated
// today, or one already existed before the cycle ran.
//
// The transition is deliberately explicit; streak continuity is
// user-visible and every branch is pinned by tests.
func Advance(s domain.StreakData, hasReadToday bool, today time.Time) domain.StreakData {
	day := domain.Day(today)
	yesterday := domain.Day(today.AddDate(0, 0, -1))

	if hasReadToday {
		switch s.LastReadDate {
		case yesterday:
			s.Current++
		case day:
			// Already counted today.
		default:
			// Fresh start, including after a gap.
			s.Current = 1
		}
		s.LastReadDate = day
		if s.Current > s.Longest {
			s.Longest = s.Current
		}
		return s
	}

	// No reading today. Grace period: if the last read day is still today
	// or yesterday, the streak is not yet broken.
	if s.LastReadDate != day && s.LastReadDate != yesterday {
		s.Current = 0
	}
	return s
}

// Describe renders the streak for the status bar.
func Describe(s domain.StreakData) string {
	switch s.Current {
	case 0:
		return "no streak"
	case 1:
		return "1 day streak"
	default:
		return fmt.Sprintf("%d day streak", s.Current)
	}
}
