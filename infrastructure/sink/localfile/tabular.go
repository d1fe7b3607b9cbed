// ABOUTME: Local-file tabular sink writing one JSON file per listing
// ABOUTME: Files use sorted keys and stable indentation for diffability

package localfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
)

// DefaultTabularDir is where tabular JSON files land unless configured otherwise.
const DefaultTabularDir = "data/tabular"

// TabularSink persists typed records as local JSON files, one per
// listing, keyed by the escaped listing identity.
type TabularSink struct {
	baseDir string
}

// NewTabularSink creates a local-file tabular sink rooted at baseDir.
func NewTabularSink(baseDir string) *TabularSink {
	if baseDir == "" {
		baseDir = DefaultTabularDir
	}
	return &TabularSink{baseDir: baseDir}
}

// Path returns the artifact path for a listing identity.
func (s *TabularSink) Path(urlExtension string) string {
	return filepath.Join(s.baseDir, domain.EscapeIdentity(urlExtension)+".json")
}

// Commit writes the typed record to the listing's JSON file. Keys are
// serialized in sorted order with 2-space indentation; a second commit
// for the same identity overwrites the file deterministically.
func (s *TabularSink) Commit(_ context.Context, urlExtension string, record domain.TypedRecord) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return cerrors.WrapError(err, "failed to create tabular data directory")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return cerrors.WrapError(err, "failed to serialize typed record")
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.Path(urlExtension), data, 0o644); err != nil {
		return cerrors.WrapError(err, "failed to write tabular data file")
	}
	return nil
}

// Load reads a previously committed record back. A missing file yields
// a NotFoundError; an unreadable or unparseable file yields an error
// the caller treats as a corrupt artifact.
func (s *TabularSink) Load(_ context.Context, urlExtension string) (domain.TypedRecord, error) {
	data, err := os.ReadFile(s.Path(urlExtension))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &cerrors.NotFoundError{Resource: "tabular data", ID: urlExtension}
		}
		return nil, cerrors.WrapError(err, "failed to read tabular data file")
	}

	var record domain.TypedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, cerrors.WrapError(err, "failed to parse tabular data file")
	}
	return record, nil
}

// Remove deletes the listing's JSON file if present.
func (s *TabularSink) Remove(_ context.Context, urlExtension string) error {
	err := os.Remove(s.Path(urlExtension))
	if err != nil && !os.IsNotExist(err) {
		return cerrors.WrapError(err, "failed to remove tabular data file")
	}
	return nil
}
