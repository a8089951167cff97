package domain

import (
	"strconv"
	"strings"
	"time"
)

// RawObservation is one inbound book state as delivered by an external
// source. Fields are deliberately loose: sources disagree on whether
// progress arrives as a number or a percent string, and status vocabularies
// vary. Normalize is the single point where this looseness is resolved.
type RawObservation struct {
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	Progress  *float64  `json:"progress,omitempty"` // preferred numeric field
	Percent   string    `json:"percent,omitempty"`  // fallback, e.g. "42" or "42%"
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"` // zero = sync wall clock
}

// Observation is the normalized value object the core operates on.
// Progress is always 0-100 and Status is always non-empty from here on.
type Observation struct {
	BookID    string
	Title     string
	Authors   string
	Progress  int
	Status    string
	Timestamp time.Time
}

// Normalize converts a loose inbound observation into a strict one.
// Malformed progress or status degrades to 0/"unknown" rather than
// erroring; the classifier always receives a consistent snapshot.
func Normalize(raw RawObservation) Observation {
	return Observation{
		BookID:    strings.TrimSpace(raw.BookID),
		Title:     strings.TrimSpace(raw.Title),
		Authors:   strings.TrimSpace(raw.Authors),
		Progress:  normalizeProgress(raw),
		Status:    normalizeStatus(raw.Status),
		Timestamp: raw.Timestamp,
	}
}

func normalizeProgress(raw RawObservation) int {
	if raw.Progress != nil {
		return clampProgress(int(*raw.Progress + 0.5))
	}
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw.Percent), "%"))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clampProgress(int(f + 0.5))
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func normalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return StatusUnknown
	}
	return s
}
