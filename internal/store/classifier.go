package store

import (
	"time"

	"github.com/foliotracker/folio/internal/domain"
)

// AddSnapshot is the write path for one observation: it decides whether
// the observation represents a reading event, upserts the day's snapshot,
// and appends the derived activity.
//
// The comparison baseline is the book's most recent prior snapshot by
// timestamp, across all dates, so a sync arriving after midnight still
// measures against last night's state. Progress regressions are accepted
// into the snapshot but never produce an activity.
func (s *TrackerStore) AddSnapshot(obs domain.Observation, occurredAt time.Time) (*domain.Activity, error) {
	if obs.BookID == "" {
		return nil, domain.ErrMissingBookID
	}

	ts := occurredAt
	if ts.IsZero() {
		if !obs.Timestamp.IsZero() {
			ts = obs.Timestamp
		} else {
			ts = time.Now()
		}
	}
	today := domain.Day(ts)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hasPrev := s.latestSnapshotLocked(obs.BookID)

	snap := domain.Snapshot{
		Date:      today,
		BookID:    obs.BookID,
		Title:     obs.Title,
		Authors:   obs.Authors,
		Progress:  obs.Progress,
		Status:    obs.Status,
		Timestamp: ts,
	}

	act := classify(prev, hasPrev, snap)

	s.upsertSnapshotLocked(snap)
	if act != nil {
		s.appendActivityLocked(*act)
	}
	return act, nil
}

// classify implements the activity decision table.
func classify(prev domain.Snapshot, hasPrev bool, snap domain.Snapshot) *domain.Activity {
	base := domain.Activity{
		Date:        snap.Date,
		BookID:      snap.BookID,
		Title:       snap.Title,
		NewProgress: snap.Progress,
		Timestamp:   snap.Timestamp,
	}

	switch {
	case !hasPrev && snap.Progress > 0:
		base.Type = domain.ActivityStarted
		return &base
	case !hasPrev:
		return nil
	case snap.Progress > prev.Progress && snap.Status == domain.StatusRead && prev.Status != domain.StatusRead:
		base.Type = domain.ActivityFinished
		base.ProgressDelta = snap.Progress - prev.Progress
		return &base
	case snap.Progress > prev.Progress && prev.Progress == 0:
		// A book observed at 0% is not started yet; the first real
		// progress is the start event.
		base.Type = domain.ActivityStarted
		return &base
	case snap.Progress > prev.Progress:
		base.Type = domain.ActivityProgress
		base.ProgressDelta = snap.Progress - prev.Progress
		return &base
	default:
		// Unchanged or decreased: regression is not modeled as an event.
		return nil
	}
}

// upsertSnapshotLocked enforces at most one snapshot per (bookID, date),
// last write wins.
func (s *TrackerStore) upsertSnapshotLocked(snap domain.Snapshot) {
	for i, existing := range s.data.Snapshots {
		if existing.BookID == snap.BookID && existing.Date == snap.Date {
			s.data.Snapshots[i] = snap
			return
		}
	}
	s.data.Snapshots = append(s.data.Snapshots, snap)
}

// appendActivityLocked applies the dedup rule, appends, and evicts.
// Started/finished replace any same-day entry of the same type for the
// book, so repeated syncs within a day cannot spam the feed. Progress
// entries always append; multiple partial deltas per day sum later.
func (s *TrackerStore) appendActivityLocked(act domain.Activity) {
	if act.Type != domain.ActivityProgress {
		kept := s.data.Activities[:0]
		for _, existing := range s.data.Activities {
			if existing.BookID == act.BookID && existing.Date == act.Date && existing.Type == act.Type {
				continue
			}
			kept = append(kept, existing)
		}
		s.data.Activities = kept
	}

	s.data.Activities = append(s.data.Activities, act)

	if s.activityCap > 0 && len(s.data.Activities) > s.activityCap {
		excess := len(s.data.Activities) - s.activityCap
		s.data.Activities = append(s.data.Activities[:0], s.data.Activities[excess:]...)
	}
}
