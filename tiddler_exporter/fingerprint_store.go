package tiddler_exporter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pterm/pterm"
	"github.com/repexport/repexport/tiddler_exporter/models"
	"github.com/repexport/repexport/utils"
)

// FingerprintStore persists the fingerprint table between runs.
type FingerprintStore struct {
	path   string
	logger *pterm.Logger
}

// StoreStats describes the table on disk.
type StoreStats struct {
	Path      string
	Exists    bool
	Entries   int
	SizeBytes int64
	ModTime   time.Time
	Sample    []string
}

func NewFingerprintStore(path string, logger *pterm.Logger) *FingerprintStore {
	return &FingerprintStore{path: path, logger: logger}
}

// Path returns the location of the table file.
func (s *FingerprintStore) Path() string {
	return s.path
}

// Load reads the table. A missing file yields an empty table; an unreadable or
// corrupt one yields an empty table and a warning, so every file is re-exported.
func (s *FingerprintStore) Load() models.FingerprintTable {
	table := models.FingerprintTable{}

	err := utils.ReadJSON(s.path, &table)
	switch {
	case err == nil:
		s.logger.Debug("loaded fingerprint table", s.logger.Args("path", s.path, "entries", len(table)))
		return table
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("no fingerprint table yet, exporting everything", s.logger.Args("path", s.path))
	default:
		s.logger.Warn("fingerprint table unreadable, starting empty", s.logger.Args("path", s.path, "error", err.Error()))
	}
	return models.FingerprintTable{}
}

// Save writes the whole table atomically, creating the parent directory.
func (s *FingerprintStore) Save(table models.FingerprintTable) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}
	if table == nil {
		table = models.FingerprintTable{}
	}
	if err := utils.WriteJSONAtomic(s.path, table); err != nil {
		return fmt.Errorf("failed to write fingerprint table: %w", err)
	}
	s.logger.Debug("saved fingerprint table", s.logger.Args("path", s.path, "entries", len(table)))
	return nil
}

// Delete removes the table so the next export starts from scratch. Deleting a
// missing table is not an error.
func (s *FingerprintStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete fingerprint table %s: %w", s.path, err)
	}
	return nil
}

// Stats inspects the table without modifying it.
func (s *FingerprintStore) Stats(sampleSize int) (*StoreStats, error) {
	stats := &StoreStats{Path: s.path}

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat fingerprint table %s: %w", s.path, err)
	}
	stats.Exists = true
	stats.SizeBytes = info.Size()
	stats.ModTime = info.ModTime()

	table := models.FingerprintTable{}
	if err := utils.ReadJSON(s.path, &table); err != nil {
		return nil, fmt.Errorf("failed to read fingerprint table %s: %w", s.path, err)
	}
	stats.Entries = len(table)

	paths := make([]string, 0, len(table))
	for path := range table {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	if sampleSize >= 0 && len(paths) > sampleSize {
		paths = paths[:sampleSize]
	}
	stats.Sample = paths

	return stats, nil
}
