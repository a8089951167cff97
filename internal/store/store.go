package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/foliotracker/folio/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketTracker = []byte("tracker")

const aggregateKey = "aggregate"

// TrackerStore implements domain.Store using BoltDB. The root aggregate
// lives in memory behind a mutex and is serialized as one JSON document
// under a single key; Save rewrites the whole document. Two overlapping
// writers against the same file interleave last-write-wins, which is
// accepted for this single-user workload.
type TrackerStore struct {
	db     *bolt.DB
	logger *slog.Logger

	mu   sync.RWMutex
	data domain.TrackerData

	// activityCap > 0 evicts the oldest activities past the cap, in
	// append order. 0 keeps the full log so analytics can see all history.
	activityCap int
}

// Option configures a TrackerStore.
type Option func(*TrackerStore)

// WithActivityCap bounds the stored activity log. Eviction keeps the most
// recent n entries by array position, so callers must append in
// chronological order for the cap to behave as a sliding window.
func WithActivityCap(n int) Option {
	return func(s *TrackerStore) { s.activityCap = n }
}

// NewTrackerStore opens (or creates) the tracker database under dir and
// loads the persisted aggregate. An empty dir selects memory-only mode
// with no persistence. A missing or unparseable document is a normal
// first-run state, not an error.
func NewTrackerStore(dir string, logger *slog.Logger, opts ...Option) (*TrackerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TrackerStore{logger: logger, data: domain.DefaultTrackerData()}
	for _, opt := range opts {
		opt(s)
	}

	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, "folio.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTracker)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	s.load()
	return s, nil
}

func (s *TrackerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// load reads the persisted aggregate and shallow-merges it with defaults:
// known top-level keys present in the document replace the defaults
// wholesale, missing keys keep their default. Repeated calls are safe;
// the last call wins.
func (s *TrackerStore) load() {
	if s.db == nil {
		return
	}

	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTracker)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(aggregateKey)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = domain.DefaultTrackerData()
	if raw == nil {
		return
	}

	var loaded domain.TrackerData
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.logger.Warn("tracker data unreadable, starting empty", "error", err)
		return
	}
	if loaded.Version != 0 {
		s.data.Version = loaded.Version
	}
	if loaded.Snapshots != nil {
		s.data.Snapshots = loaded.Snapshots
	}
	if loaded.Activities != nil {
		s.data.Activities = loaded.Activities
	}
	s.data.Streaks = loaded.Streaks
	s.data.LastSync = loaded.LastSync
	if loaded.BookPageCounts != nil {
		s.data.BookPageCounts = loaded.BookPageCounts
	}
}

// Save serializes and writes the full aggregate.
func (s *TrackerStore) Save() error {
	s.mu.RLock()
	data, err := json.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if s.db == nil {
		return nil // Memory-only mode
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTracker).Put([]byte(aggregateKey), data)
	})
}

// Reset clears the aggregate back to the first-run state and persists.
func (s *TrackerStore) Reset() error {
	s.mu.Lock()
	s.data = domain.DefaultTrackerData()
	s.mu.Unlock()
	return s.Save()
}

// === Snapshots ===

func (s *TrackerStore) LatestSnapshot(bookID string) (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestSnapshotLocked(bookID)
}

func (s *TrackerStore) latestSnapshotLocked(bookID string) (domain.Snapshot, bool) {
	var best domain.Snapshot
	found := false
	for _, snap := range s.data.Snapshots {
		if snap.BookID != bookID {
			continue
		}
		if !found || snap.Timestamp.After(best.Timestamp) {
			best = snap
			found = true
		}
	}
	return best, found
}

func (s *TrackerStore) LatestSnapshots() map[string]domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := make(map[string]domain.Snapshot)
	for _, snap := range s.data.Snapshots {
		if cur, ok := latest[snap.BookID]; !ok || snap.Timestamp.After(cur.Timestamp) {
			latest[snap.BookID] = snap
		}
	}
	return latest
}

// === Activities ===

func (s *TrackerStore) ActivitiesOn(date string) []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	for _, act := range s.data.Activities {
		if act.Date == date {
			out = append(out, act)
		}
	}
	return out
}

// ActivitiesSince returns activities dated within the trailing window
// ending at day, inclusive on both ends. Day strings sort lexically.
func (s *TrackerStore) ActivitiesSince(day string, lookbackDays int) []domain.Activity {
	end, err := time.Parse(domain.DayFormat, day)
	if err != nil {
		return nil
	}
	start := domain.Day(end.AddDate(0, 0, -(lookbackDays - 1)))

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	for _, act := range s.data.Activities {
		if act.Date >= start && act.Date <= day {
			out = append(out, act)
		}
	}
	return out
}

func (s *TrackerStore) AllActivities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Activity, len(s.data.Activities))
	copy(out, s.data.Activities)
	return out
}

// RecentActivities returns the last limit activities in append order,
// the bounded feed view. limit <= 0 returns everything.
func (s *TrackerStore) RecentActivities(limit int) []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acts := s.data.Activities
	if limit > 0 && len(acts) > limit {
		acts = acts[len(acts)-limit:]
	}
	out := make([]domain.Activity, len(acts))
	copy(out, acts)
	return out
}

// === Streak ===

func (s *TrackerStore) Streak() domain.StreakData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Streaks
}

func (s *TrackerStore) SetStreak(streak domain.StreakData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Streaks = streak
}

// === Page counts ===

func (s *TrackerStore) PageCount(bookID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages, ok := s.data.BookPageCounts[bookID]
	return pages, ok
}

// SetPageCount stores a manual page-count override. Each write persists
// immediately; overrides are user-entered ground truth and should survive
// a crash without waiting for the next sync.
func (s *TrackerStore) SetPageCount(bookID string, pages int) error {
	if pages <= 0 {
		return domain.ErrInvalidPageCount
	}
	s.mu.Lock()
	s.data.BookPageCounts[bookID] = pages
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		s.logger.Error("failed to persist page count", "error", err, "bookID", bookID)
	}
	return nil
}

func (s *TrackerStore) PageCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.data.BookPageCounts))
	for id, pages := range s.data.BookPageCounts {
		out[id] = pages
	}
	return out
}

// === Sync bookkeeping ===

func (s *TrackerStore) LastSync() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.LastSync == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.data.LastSync)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *TrackerStore) SetLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastSync = t.Format(time.RFC3339)
}
