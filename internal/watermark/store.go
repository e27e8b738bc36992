// Package watermark persists the "last processed" timestamp between runs.
package watermark

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// DefaultFileName is used when no explicit watermark path is configured; the
// file is placed next to the executable.
const DefaultFileName = "last_run_timestamp.json"

type fileFormat struct {
	LastWriteTime string `json:"last_write_time"`
}

// Store reads and writes the watermark file. A missing, unreadable, or
// malformed file is never fatal: the run falls back to a full resync.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored watermark, or nil when no usable watermark exists.
// Every failure is downgraded to a warning.
func (s *Store) Load() *time.Time {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read watermark file", "path", s.path, "error", err)
		}
		return nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		slog.Warn("Malformed watermark file, ignoring", "path", s.path, "error", err)
		return nil
	}
	if f.LastWriteTime == "" {
		slog.Warn("Watermark file has no last_write_time, ignoring", "path", s.path)
		return nil
	}

	t, err := time.Parse(time.RFC3339Nano, f.LastWriteTime)
	if err != nil {
		slog.Warn("Unparseable watermark timestamp, ignoring", "path", s.path, "value", f.LastWriteTime, "error", err)
		return nil
	}
	return &t
}

// Save writes the watermark as {"last_write_time": <ISO-8601>}. The caller
// treats a failure as a warning; the run has already completed.
func (s *Store) Save(t time.Time) error {
	data, err := json.MarshalIndent(fileFormat{LastWriteTime: t.Format(time.RFC3339Nano)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
