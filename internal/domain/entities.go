package domain

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-day key format used throughout the tracker.
// Days are always resolved in local time.
const DayFormat = "2006-01-02"

// Day formats a time as a calendar-day key.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// StatusRead is the external status string that marks a book as finished.
// Anything else ("reading", "to-read", custom shelves) is treated as
// in-progress metadata and never drives a finish event.
const StatusRead = "read"

// StatusUnknown is assigned when the inbound status field is absent or
// unparseable.
const StatusUnknown = "unknown"

// ActivityType classifies a derived reading event.
type ActivityType string

const (
	ActivityStarted  ActivityType = "started"
	ActivityProgress ActivityType = "progress"
	ActivityFinished ActivityType = "finished"
)

// Rank orders activity types for same-day merging: a day where a book was
// both advanced and finished counts as finished.
func (t ActivityType) Rank() int {
	switch t {
	case ActivityFinished:
		return 2
	case ActivityProgress:
		return 1
	case ActivityStarted:
		return 0
	default:
		return -1
	}
}

// Snapshot is one day's recorded progress for one book. At most one
// snapshot exists per (BookID, Date); a later write replaces the earlier.
type Snapshot struct {
	Date      string    `json:"date"` // calendar day, local
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	Progress  int       `json:"progress"` // 0-100
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"` // event time, orders observations
}

// Activity is a derived reading event produced by the classifier.
type Activity struct {
	Date          string       `json:"date"`
	BookID        string       `json:"bookId"`
	Title         string       `json:"title"`
	Type          ActivityType `json:"type"`
	ProgressDelta int          `json:"progressDelta,omitempty"` // percent points, progress/finished only
	NewProgress   int          `json:"newProgress"`
	Timestamp     time.Time    `json:"timestamp"`
}

// StreakData is the singleton consecutive-day reading state.
type StreakData struct {
	Current      int    `json:"current"`
	Longest      int    `json:"longest"`
	LastReadDate string `json:"lastReadDate,omitempty"` // calendar day, empty = never read
}

// TrackerData is the root aggregate persisted as a single JSON document.
// It is owned exclusively by the store; other components receive copies.
type TrackerData struct {
	Version        int            `json:"version"`
	Snapshots      []Snapshot     `json:"snapshots"`
	Activities     []Activity     `json:"activities"`
	Streaks        StreakData     `json:"streaks"`
	LastSync       string         `json:"lastSync,omitempty"` // RFC 3339
	BookPageCounts map[string]int `json:"bookPageCounts"`
}

// SchemaVersion is written into new aggregates. No migration logic exists
// yet; the field reserves the option.
const SchemaVersion = 1

// DefaultTrackerData returns an empty aggregate, the normal first-run state.
func DefaultTrackerData() TrackerData {
	return TrackerData{
		Version:        SchemaVersion,
		Snapshots:      []Snapshot{},
		Activities:     []Activity{},
		BookPageCounts: map[string]int{},
	}
}

// ReadState buckets a live book observation for dashboard counters.
type ReadState int

const (
	ReadStateNotStarted ReadState = iota
	ReadStateReading
	ReadStateCompleted
)

func (r ReadState) String() string {
	switch r {
	case ReadStateReading:
		return "Reading"
	case ReadStateCompleted:
		return "Completed"
	default:
		return "Not Started"
	}
}

// ClassifyBook buckets a book by its live progress and status. Completion
// is reached either by progress or by an explicit "read" status, so books
// shelved as read at less than 100% still count as completed.
func ClassifyBook(progress int, status string) ReadState {
	if progress == 100 || status == StatusRead {
		return ReadStateCompleted
	}
	if progress > 0 {
		return ReadStateReading
	}
	return ReadStateNotStarted
}

// Label returns the feed line for an activity.
func (a Activity) Label() string {
	switch a.Type {
	case ActivityStarted:
		return fmt.Sprintf("Started %q", a.Title)
	case ActivityFinished:
		return fmt.Sprintf("Finished %q", a.Title)
	default:
		return fmt.Sprintf("Read %d%% of %q", a.ProgressDelta, a.Title)
	}
}
