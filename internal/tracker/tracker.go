// Package tracker drives the sync cycle: observations in, snapshots and
// activities recorded, streak advanced, aggregate persisted.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foliotracker/folio/internal/domain"
	"github.com/foliotracker/folio/internal/streak"
)

// Service orchestrates source + store operations.
type Service struct {
	source   domain.BookSource
	store    domain.Store
	notifier domain.Notifier
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a tracker service. A nil notifier logs events only.
func NewService(source domain.BookSource, store domain.Store, notifier domain.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}
	return &Service{
		source:   source,
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SyncResult summarizes one sync cycle.
type SyncResult struct {
	Books      int // observations delivered by the source
	Activities int // activities produced this cycle
	Failed     int // observations skipped after a per-book failure
	Streak     domain.StreakData
}

// Sync runs one cycle. Books are processed sequentially; a failure on one
// book is logged and skipped without aborting the batch. The streak
// advances only after the whole batch lands, since it needs the full
// day's activity picture, and a cycle that produced nothing still counts
// any activity already recorded for today.
func (s *Service) Sync(ctx context.Context) (SyncResult, error) {
	books, err := s.source.Books(ctx)
	if err != nil {
		s.logger.Error("failed to fetch book list", "error", err)
		return SyncResult{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	now := s.now()
	result := SyncResult{Books: len(books)}
	var produced []domain.Activity

	for _, raw := range books {
		obs := domain.Normalize(raw)
		act, err := s.store.AddSnapshot(obs, now)
		if err != nil {
			result.Failed++
			s.logger.Warn("skipping book", "error", err, "title", raw.Title)
			continue
		}
		if act != nil {
			produced = append(produced, *act)
		}
	}
	result.Activities = len(produced)

	hasReadToday := len(s.store.ActivitiesOn(domain.Day(now))) > 0
	prev := s.store.Streak()
	next := streak.Advance(prev, hasReadToday, now)
	s.store.SetStreak(next)
	result.Streak = next

	s.store.SetLastSync(now)
	if err := s.store.Save(); err != nil {
		// Best effort: the in-memory state stays authoritative.
		s.logger.Error("failed to persist tracker data", "error", err)
	}

	for _, act := range produced {
		s.notifier.ReadingEvent(act)
	}
	if next.Current != prev.Current {
		s.notifier.StreakChanged(next)
	}

	s.logger.Debug("sync complete",
		"books", result.Books,
		"activities", result.Activities,
		"failed", result.Failed,
		"streak", next.Current)
	return result, nil
}

// Run syncs immediately and then on every tick until the context ends.
// Overlap between a manual Sync and a scheduled one is not serialized;
// the on-disk document resolves last-write-wins.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	if _, err := s.Sync(ctx); err != nil {
		s.logger.Warn("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.logger.Warn("scheduled sync failed", "error", err)
			}
		}
	}
}

// LogNotifier is the default notifier: events go to the log and nowhere
// else.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) ReadingEvent(act domain.Activity) {
	n.Logger.Info("reading event", "type", act.Type, "title", act.Title, "progress", act.NewProgress)
}

func (n *LogNotifier) StreakChanged(s domain.StreakData) {
	n.Logger.Info("streak changed", "current", s.Current, "longest", s.Longest)
}
