// Package jsonfile adapts a plain JSON file of book observations into a
// domain.BookSource. Note importers and library exporters drop the file;
// the tracker picks it up on the next sync.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/foliotracker/folio/internal/domain"
)

// Source reads observations from a JSON array on disk. The file is
// re-read on every sync so an importer can rewrite it between cycles.
type Source struct {
	Path string
}

func New(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) Books(ctx context.Context) ([]domain.RawObservation, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read observations file: %w", err)
	}

	var books []domain.RawObservation
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse observations file: %w", err)
	}
	return books, nil
}
