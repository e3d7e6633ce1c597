package tiddler_exporter

import (
	"time"
)

// ExportStats tracks how much work a run did.
type ExportStats struct {
	FilesRead   int64
	BytesRead   int64
	Matches     int64
	Mismatches  int64
	ReadErrors  int64
	WriteErrors int64
	StartedAt   time.Time
	FinishedAt  time.Time
}

func (s *ExportStats) start(now time.Time) {
	*s = ExportStats{StartedAt: now}
}

func (s *ExportStats) recordRead(size int) {
	s.FilesRead++
	s.BytesRead += int64(size)
}

func (s *ExportStats) recordMatch(unchanged bool) {
	if unchanged {
		s.Matches++
		return
	}
	s.Mismatches++
}

// Duration is the wall time of the run, or zero while it is in progress.
func (s *ExportStats) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// MatchRate is the share of read files whose fingerprint was unchanged, in percent.
func (s *ExportStats) MatchRate() float64 {
	total := s.Matches + s.Mismatches
	if total == 0 {
		return 0
	}
	return float64(s.Matches) / float64(total) * 100
}

// Summary flattens the stats for structured logging.
func (s *ExportStats) Summary() map[string]any {
	return map[string]any{
		"files_read":     s.FilesRead,
		"bytes_read":     s.BytesRead,
		"unchanged":      s.Matches,
		"changed":        s.Mismatches,
		"match_rate_pct": s.MatchRate(),
		"read_errors":    s.ReadErrors,
		"write_errors":   s.WriteErrors,
		"duration":       s.Duration().String(),
	}
}
