package store

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/foliotracker/folio/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore returns a memory-only store with no persistence.
func memStore(t *testing.T, opts ...Option) *TrackerStore {
	t.Helper()
	s, err := NewTrackerStore("", testLogger(), opts...)
	if err != nil {
		t.Fatalf("NewTrackerStore: %v", err)
	}
	return s
}

func obs(id string, progress int, status string) domain.Observation {
	return domain.Observation{BookID: id, Title: "Book " + id, Progress: progress, Status: status}
}

// at returns a timestamp n days after the base day, plus some hours so
// repeated calls within a day stay ordered.
func at(day, hour int) time.Time {
	return base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

func mustAdd(t *testing.T, s *TrackerStore, o domain.Observation, ts time.Time) *domain.Activity {
	t.Helper()
	act, err := s.AddSnapshot(o, ts)
	if err != nil {
		t.Fatalf("AddSnapshot(%s): %v", o.BookID, err)
	}
	return act
}

func TestAddSnapshot_OnePerBookAndDay(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 10, "reading"), at(0, 0))
	mustAdd(t, s, obs("b1", 25, "reading"), at(0, 2))

	s.mu.RLock()
	count := len(s.data.Snapshots)
	s.mu.RUnlock()
	if count != 1 {
		t.Fatalf("snapshot count = %d, want 1 (last write wins per book+day)", count)
	}

	snap, ok := s.LatestSnapshot("b1")
	if !ok || snap.Progress != 25 {
		t.Errorf("latest snapshot progress = %d, want 25", snap.Progress)
	}
}

func TestAddSnapshot_PriorIsMaxTimestampAcrossDates(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 20, "reading"), at(0, 0))
	mustAdd(t, s, obs("b1", 50, "reading"), at(1, 0))

	// Day 2 compares against day 1's snapshot, not the same day's.
	act := mustAdd(t, s, obs("b1", 60, "reading"), at(2, 0))
	if act == nil || act.Type != domain.ActivityProgress {
		t.Fatalf("activity = %+v, want progress", act)
	}
	if act.ProgressDelta != 10 {
		t.Errorf("ProgressDelta = %d, want 10", act.ProgressDelta)
	}
}

func TestAddSnapshot_RegressionRecordsSnapshotWithoutActivity(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 70, "reading"), at(0, 0))

	act := mustAdd(t, s, obs("b1", 50, "reading"), at(1, 0))
	if act != nil {
		t.Fatalf("activity = %+v, want nil for a regression", act)
	}
	snap, _ := s.LatestSnapshot("b1")
	if snap.Progress != 50 {
		t.Errorf("snapshot progress = %d, want 50 (regression still recorded)", snap.Progress)
	}
}

func TestAddSnapshot_StartedClassification(t *testing.T) {
	s := memStore(t)

	// Unseen book at 0% produces nothing.
	if act := mustAdd(t, s, obs("b1", 0, "reading"), at(0, 0)); act != nil {
		t.Fatalf("activity for 0%% first sight = %+v, want nil", act)
	}

	// First real progress is the start event, even with a 0% snapshot on file.
	act := mustAdd(t, s, obs("b1", 35, "reading"), at(1, 0))
	if act == nil || act.Type != domain.ActivityStarted {
		t.Fatalf("activity = %+v, want started", act)
	}
	if act.NewProgress != 35 {
		t.Errorf("NewProgress = %d, want 35", act.NewProgress)
	}

	// A brand-new book already in progress also starts.
	act2 := mustAdd(t, s, obs("b2", 12, "reading"), at(1, 1))
	if act2 == nil || act2.Type != domain.ActivityStarted {
		t.Fatalf("activity = %+v, want started", act2)
	}
}

func TestAddSnapshot_FinishedClassification(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 70, "reading"), at(0, 0))

	act := mustAdd(t, s, obs("b1", 100, domain.StatusRead), at(1, 0))
	if act == nil || act.Type != domain.ActivityFinished {
		t.Fatalf("activity = %+v, want finished", act)
	}
	if act.ProgressDelta != 30 {
		t.Errorf("ProgressDelta = %d, want 30", act.ProgressDelta)
	}

	// Already read: a later bump cannot finish twice.
	act2 := mustAdd(t, s, obs("b1", 100, domain.StatusRead), at(2, 0))
	if act2 != nil {
		t.Errorf("activity = %+v, want nil (unchanged)", act2)
	}
}

func TestAddSnapshot_StartedDedupPerDay(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 0, "reading"), at(0, 0))

	mustAdd(t, s, obs("b1", 35, "reading"), at(1, 0)) // started
	mustAdd(t, s, obs("b1", 0, "reading"), at(1, 1))  // regression, silent
	mustAdd(t, s, obs("b1", 50, "reading"), at(1, 2)) // started again, same day

	acts := s.ActivitiesOn("2026-03-02")
	if len(acts) != 1 {
		t.Fatalf("activities on day = %d, want 1 (started replaced, not duplicated)", len(acts))
	}
	if acts[0].NewProgress != 50 {
		t.Errorf("NewProgress = %d, want 50 (latest classification wins)", acts[0].NewProgress)
	}
}

func TestAddSnapshot_ProgressAppendsUnconditionally(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 10, "reading"), at(0, 0))

	mustAdd(t, s, obs("b1", 40, "reading"), at(1, 0))
	mustAdd(t, s, obs("b1", 55, "reading"), at(1, 3))
	mustAdd(t, s, obs("b1", 70, "reading"), at(1, 6))

	acts := s.ActivitiesOn("2026-03-02")
	if len(acts) != 3 {
		t.Fatalf("activities on day = %d, want 3 separate progress entries", len(acts))
	}
	total := 0
	for _, a := range acts {
		if a.Type != domain.ActivityProgress {
			t.Errorf("type = %s, want progress", a.Type)
		}
		total += a.ProgressDelta
	}
	if total != 60 {
		t.Errorf("summed delta = %d, want 60", total)
	}
}

func TestAddSnapshot_MissingBookID(t *testing.T) {
	s := memStore(t)
	_, err := s.AddSnapshot(domain.Observation{Title: "orphan", Progress: 10}, at(0, 0))
	if !errors.Is(err, domain.ErrMissingBookID) {
		t.Errorf("err = %v, want ErrMissingBookID", err)
	}
}

func TestActivityCapEvictsOldest(t *testing.T) {
	s := memStore(t, WithActivityCap(3))
	mustAdd(t, s, obs("b1", 10, "reading"), at(0, 0))
	for i := 1; i <= 5; i++ {
		mustAdd(t, s, obs("b1", 10+i*10, "reading"), at(i, 0))
	}

	acts := s.AllActivities()
	if len(acts) != 3 {
		t.Fatalf("activity count = %d, want 3", len(acts))
	}
	// Oldest entries evicted in append order.
	if acts[0].NewProgress != 40 {
		t.Errorf("oldest retained NewProgress = %d, want 40", acts[0].NewProgress)
	}
}

func TestUncappedLogKeepsFullHistory(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 1, "reading"), at(0, 0))
	for i := 1; i < 120; i++ {
		ts := at(i, 0)
		s.mu.Lock()
		s.appendActivityLocked(domain.Activity{
			Date:          domain.Day(ts),
			BookID:        "b1",
			Type:          domain.ActivityProgress,
			ProgressDelta: 1,
			Timestamp:     ts,
		})
		s.mu.Unlock()
	}

	if got := len(s.AllActivities()); got != 120 {
		t.Errorf("full log length = %d, want 120 (analytics sees everything)", got)
	}
	if got := len(s.RecentActivities(100)); got != 100 {
		t.Errorf("feed view length = %d, want 100", got)
	}
}

func TestRecentActivitiesKeepsNewest(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 10, "reading"), at(0, 0))
	mustAdd(t, s, obs("b1", 20, "reading"), at(1, 0))
	mustAdd(t, s, obs("b1", 30, "reading"), at(2, 0))

	recent := s.RecentActivities(2)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[1].NewProgress != 30 {
		t.Errorf("newest NewProgress = %d, want 30", recent[1].NewProgress)
	}
}

func TestActivitiesSinceWindowInclusive(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 5, "reading"), at(0, 0))
	for i := 1; i <= 9; i++ {
		mustAdd(t, s, obs("b1", 5+i*10, "reading"), at(i, 0))
	}

	// 7-day window ending day 9 covers days 3..9 inclusive.
	acts := s.ActivitiesSince(domain.Day(at(9, 0)), 7)
	if len(acts) != 7 {
		t.Fatalf("windowed count = %d, want 7", len(acts))
	}
	if acts[0].Date != "2026-03-04" {
		t.Errorf("earliest in window = %s, want 2026-03-04", acts[0].Date)
	}
}

func TestPageCountValidation(t *testing.T) {
	s := memStore(t)
	if err := s.SetPageCount("b1", 0); !errors.Is(err, domain.ErrInvalidPageCount) {
		t.Errorf("err = %v, want ErrInvalidPageCount", err)
	}
	if err := s.SetPageCount("b1", 412); err != nil {
		t.Fatalf("SetPageCount: %v", err)
	}
	if pages, ok := s.PageCount("b1"); !ok || pages != 412 {
		t.Errorf("PageCount = %d/%v, want 412/true", pages, ok)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := NewTrackerStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTrackerStore: %v", err)
	}
	mustAdd(t, s, obs("b1", 40, "reading"), at(0, 0))
	if err := s.SetPageCount("b1", 300); err != nil {
		t.Fatalf("SetPageCount: %v", err)
	}
	s.SetStreak(domain.StreakData{Current: 2, Longest: 5, LastReadDate: "2026-03-01"})
	s.SetLastSync(at(0, 1))
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewTrackerStore(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	snap, ok := reopened.LatestSnapshot("b1")
	if !ok || snap.Progress != 40 {
		t.Errorf("reloaded snapshot = %+v/%v, want progress 40", snap, ok)
	}
	if pages, ok := reopened.PageCount("b1"); !ok || pages != 300 {
		t.Errorf("reloaded page count = %d/%v, want 300/true", pages, ok)
	}
	if st := reopened.Streak(); st.Current != 2 || st.Longest != 5 {
		t.Errorf("reloaded streak = %+v, want current 2 longest 5", st)
	}
	if _, ok := reopened.LastSync(); !ok {
		t.Error("reloaded last sync missing")
	}
}

func TestFreshStoreStartsEmpty(t *testing.T) {
	s, err := NewTrackerStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewTrackerStore: %v", err)
	}
	defer s.Close()

	if got := len(s.AllActivities()); got != 0 {
		t.Errorf("activities = %d, want 0", got)
	}
	if st := s.Streak(); st.Current != 0 || st.LastReadDate != "" {
		t.Errorf("streak = %+v, want zero state", st)
	}
	if _, ok := s.LastSync(); ok {
		t.Error("fresh store reports a last sync")
	}
}

// writeAggregate puts raw bytes under the aggregate key so the next
// open sees exactly that document.
func writeAggregate(t *testing.T, dir string, raw []byte) {
	t.Helper()
	db, err := bolt.Open(filepath.Join(dir, "folio.db"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	defer db.Close()
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketTracker)
		if err != nil {
			return err
		}
		return b.Put([]byte(aggregateKey), raw)
	})
	if err != nil {
		t.Fatalf("write aggregate: %v", err)
	}
}

func TestLoadCorruptDocumentStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeAggregate(t, dir, []byte("{not json"))

	s, err := NewTrackerStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTrackerStore: %v", err)
	}
	defer s.Close()

	if got := len(s.AllActivities()); got != 0 {
		t.Errorf("activities = %d, want 0", got)
	}
	s.mu.RLock()
	version := s.data.Version
	counts := s.data.BookPageCounts
	s.mu.RUnlock()
	if version != domain.SchemaVersion {
		t.Errorf("version = %d, want %d", version, domain.SchemaVersion)
	}
	if counts == nil {
		t.Error("page counts map uninitialized after corrupt load")
	}
}

func TestLoadPartialDocumentKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeAggregate(t, dir, []byte(`{"snapshots":[{"bookId":"b1","title":"Book b1","progress":40,"status":"reading","date":"2026-03-01"}]}`))

	s, err := NewTrackerStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTrackerStore: %v", err)
	}
	defer s.Close()

	snap, ok := s.LatestSnapshot("b1")
	if !ok || snap.Progress != 40 {
		t.Errorf("snapshot = %+v/%v, want progress 40", snap, ok)
	}
	if got := len(s.AllActivities()); got != 0 {
		t.Errorf("activities = %d, want 0", got)
	}
	s.mu.RLock()
	version := s.data.Version
	activities := s.data.Activities
	counts := s.data.BookPageCounts
	s.mu.RUnlock()
	if version != domain.SchemaVersion {
		t.Errorf("version = %d, want %d", version, domain.SchemaVersion)
	}
	if activities == nil || counts == nil {
		t.Error("missing document keys did not take defaults")
	}
}

func TestReset(t *testing.T) {
	s := memStore(t)
	mustAdd(t, s, obs("b1", 40, "reading"), at(0, 0))
	s.SetStreak(domain.StreakData{Current: 3, Longest: 3})

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok := s.LatestSnapshot("b1"); ok {
		t.Error("snapshot survived reset")
	}
	if st := s.Streak(); st.Current != 0 {
		t.Errorf("streak after reset = %+v, want zero", st)
	}
}
