package streak

import (
	"testing"
	"time"

	"github.com/foliotracker/folio/internal/domain"
)

var today = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAdvance_ContinuesFromYesterday(t *testing.T) {
	s := domain.StreakData{Current: 4, Longest: 6, LastReadDate: "2026-03-09"}
	got := Advance(s, true, today)

	if got.Current != 5 {
		t.Errorf("Current = %d, want 5", got.Current)
	}
	if got.LastReadDate != "2026-03-10" {
		t.Errorf("LastReadDate = %q, want 2026-03-10", got.LastReadDate)
	}
	if got.Longest != 6 {
		t.Errorf("Longest = %d, want 6", got.Longest)
	}
}

func TestAdvance_FreshStartAfterGap(t *testing.T) {
	// Two days without reading: the next read starts at 1, not 0 then 1.
	s := domain.StreakData{Current: 7, Longest: 7, LastReadDate: "2026-03-07"}
	got := Advance(s, true, today)

	if got.Current != 1 {
		t.Errorf("Current = %d, want 1", got.Current)
	}
	if got.Longest != 7 {
		t.Errorf("Longest = %d, want 7", got.Longest)
	}
}

func TestAdvance_FirstEverRead(t *testing.T) {
	got := Advance(domain.StreakData{}, true, today)
	if got.Current != 1 || got.Longest != 1 {
		t.Errorf("got current=%d longest=%d, want 1/1", got.Current, got.Longest)
	}
}

func TestAdvance_AlreadyCountedToday(t *testing.T) {
	s := domain.StreakData{Current: 3, Longest: 3, LastReadDate: "2026-03-10"}
	got := Advance(s, true, today)
	if got.Current != 3 {
		t.Errorf("Current = %d, want 3 (no double count)", got.Current)
	}
}

func TestAdvance_ExtendsLongest(t *testing.T) {
	s := domain.StreakData{Current: 6, Longest: 6, LastReadDate: "2026-03-09"}
	got := Advance(s, true, today)
	if got.Longest != 7 {
		t.Errorf("Longest = %d, want 7", got.Longest)
	}
}

func TestAdvance_NoReadGraceYesterday(t *testing.T) {
	// Last read yesterday: today's empty sync does not break the streak.
	s := domain.StreakData{Current: 4, Longest: 5, LastReadDate: "2026-03-09"}
	got := Advance(s, false, today)
	if got.Current != 4 {
		t.Errorf("Current = %d, want 4", got.Current)
	}
	if got.LastReadDate != "2026-03-09" {
		t.Errorf("LastReadDate = %q, want unchanged", got.LastReadDate)
	}
}

func TestAdvance_NoReadGraceToday(t *testing.T) {
	s := domain.StreakData{Current: 4, Longest: 5, LastReadDate: "2026-03-10"}
	got := Advance(s, false, today)
	if got.Current != 4 {
		t.Errorf("Current = %d, want 4", got.Current)
	}
}

func TestAdvance_NoReadLapses(t *testing.T) {
	s := domain.StreakData{Current: 4, Longest: 5, LastReadDate: "2026-03-08"}
	got := Advance(s, false, today)
	if got.Current != 0 {
		t.Errorf("Current = %d, want 0 (lapsed)", got.Current)
	}
	if got.Longest != 5 {
		t.Errorf("Longest = %d, want 5 preserved", got.Longest)
	}
}

func TestAdvance_NoReadNeverRead(t *testing.T) {
	got := Advance(domain.StreakData{}, false, today)
	if got.Current != 0 || got.LastReadDate != "" {
		t.Errorf("got %+v, want zero state", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		current int
		want    string
	}{
		{0, "no streak"},
		{1, "1 day streak"},
		{12, "12 day streak"},
	}
	for _, tt := range tests {
		if got := Describe(domain.StreakData{Current: tt.current}); got != tt.want {
			t.Errorf("Describe(current=%d) = %q, want %q", tt.current, got, tt.want)
		}
	}
}
