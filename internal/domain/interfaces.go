package domain

import (
	"context"
	"time"
)

// Store owns the persisted tracker aggregate. All mutation goes through
// its methods so the per-key snapshot and activity dedup invariants are
// enforced in one place. Implementations keep in-memory state
// synchronously consistent after every mutating call; only Save touches
// durable storage.
type Store interface {
	// === Write path ===

	// AddSnapshot records one observation and runs the activity
	// classifier. occurredAt resolves "today" and the event timestamp; a
	// zero value means the wall clock. Returns the derived activity, or
	// nil when the observation produced none.
	AddSnapshot(obs Observation, occurredAt time.Time) (*Activity, error)

	// Save persists the full aggregate.
	Save() error

	// === Snapshots ===

	// LatestSnapshot returns the most recent snapshot for a book by
	// timestamp, across all dates.
	LatestSnapshot(bookID string) (Snapshot, bool)

	// LatestSnapshots returns the most recent snapshot per book.
	LatestSnapshots() map[string]Snapshot

	// === Activities ===

	// ActivitiesOn returns all activities recorded for one calendar day.
	ActivitiesOn(date string) []Activity

	// ActivitiesSince returns activities within a trailing lookback
	// window ending at (and including) the given day.
	ActivitiesSince(day string, lookbackDays int) []Activity

	// AllActivities returns the full activity log in append order.
	AllActivities() []Activity

	// RecentActivities returns the bounded feed view, newest last.
	RecentActivities(limit int) []Activity

	// === Streak ===

	Streak() StreakData
	SetStreak(s StreakData)

	// === Page counts ===

	// PageCount returns the manual page-count override for a book.
	PageCount(bookID string) (int, bool)

	// SetPageCount stores a manual override and persists immediately.
	SetPageCount(bookID string, pages int) error
	PageCounts() map[string]int

	// === Sync bookkeeping ===

	LastSync() (time.Time, bool)
	SetLastSync(t time.Time)

	// Reset clears the aggregate back to the first-run state.
	Reset() error

	Close() error
}

// BookSource delivers the live book list for a sync cycle. The core never
// fetches; importers, API clients and test doubles implement this.
type BookSource interface {
	Books(ctx context.Context) ([]RawObservation, error)
}

// Notifier receives derived events at the end of a sync cycle. The UI
// layer implements this for toasts; the default implementation just logs.
type Notifier interface {
	ReadingEvent(act Activity)
	StreakChanged(s StreakData)
}
