package organize

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"chronotune/src/features/config"
	"chronotune/src/music"

	"github.com/google/uuid"
)

// Resolver identifies the release year of a file. It owns the
// identification cache for its lifetime.
type Resolver interface {
	Resolve(ctx context.Context, path string) music.Result
	Metadata(ctx context.Context, path string) music.TrackMetadata
	FlushCache() error
}

// TagWriter writes a resolved year back into a file's embedded tags.
type TagWriter interface {
	WriteYear(ctx context.Context, path string, year int) error
}

// HistoryStore persists one record per completed run.
type HistoryStore interface {
	SaveRun(ctx context.Context, record RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

// Notifier announces a finished run to an external channel.
type Notifier interface {
	RunFinished(ctx context.Context, record RunRecord) error
}

// Recorder receives per-file observations for monitoring.
type Recorder interface {
	Resolution(source music.Source)
	Moved(category Category)
	BackedUp()
	Failed()
}

// Service drives one organize run: scan, resolve, place, one file at a
// time. Files are processed strictly sequentially; cancellation is honored
// between files so no file is ever left half-moved.
type Service struct {
	config    *config.Manager
	resolver  Resolver
	placer    *Placer
	tagWriter TagWriter
	history   HistoryStore
	notifier  Notifier
	metrics   Recorder

	mu    sync.RWMutex
	stats *RunStats
}

// NewService creates a new organize service. tagWriter, history, notifier
// and metrics may be nil; the corresponding step is then skipped.
func NewService(cfg *config.Manager, resolver Resolver, placer *Placer, tagWriter TagWriter, history HistoryStore, notifier Notifier, metrics Recorder) *Service {
	return &Service{
		config:    cfg,
		resolver:  resolver,
		placer:    placer,
		tagWriter: tagWriter,
		history:   history,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// Run executes a full organize pass over the library root and returns the
// run statistics. Per-file failures are counted, never fatal; the cache is
// flushed incrementally and unconditionally at the end, including after an
// interrupt.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	cfg := s.config.Get()

	if err := s.placer.EnsureDirectories(); err != nil {
		return nil, err
	}

	files, err := scanFiles(cfg.LibraryPath, s.placer.ExcludedDirNames())
	if err != nil {
		return nil, err
	}
	slog.Info("Scan complete", "root", cfg.LibraryPath, "files", len(files))

	stats := NewRunStats(cfg.Years)
	stats.Total = len(files)
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	record := RunRecord{
		ID:      uuid.New().String(),
		Root:    cfg.LibraryPath,
		Years:   cfg.Years,
		Started: time.Now(),
	}

	for _, path := range files {
		// Cancellation is only honored between files: a file is either
		// fully placed or left untouched.
		select {
		case <-ctx.Done():
			slog.Warn("Run interrupted, stopping before next file")
			return s.finishRun(record, stats)
		default:
		}

		s.processFile(ctx, path, stats)

		if stats.Processed%cfg.Cache.FlushEvery == 0 {
			if err := s.resolver.FlushCache(); err != nil {
				slog.Warn("Incremental cache flush failed", "error", err)
			}
		}
	}

	return s.finishRun(record, stats)
}

// finishRun flushes the cache, persists the run record and fires the
// notifier. None of these failures invalidate the run itself.
func (s *Service) finishRun(record RunRecord, stats *RunStats) (*RunStats, error) {
	if err := s.resolver.FlushCache(); err != nil {
		slog.Warn("Final cache flush failed", "error", err)
	}

	record.Finished = time.Now()
	s.mu.RLock()
	record.Stats = *stats.clone()
	s.mu.RUnlock()

	if s.history != nil {
		if err := s.history.SaveRun(context.Background(), record); err != nil {
			slog.Warn("Failed to save run history", "error", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.RunFinished(context.Background(), record); err != nil {
			slog.Warn("Failed to send run notification", "error", err)
		}
	}

	return &record.Stats, nil
}

// processFile resolves and places a single file, updating statistics.
func (s *Service) processFile(ctx context.Context, path string, stats *RunStats) {
	cfg := s.config.Get()
	result := s.resolver.Resolve(ctx, path)
	meta := s.resolver.Metadata(ctx, path)

	source := result.Source
	if result.Cached {
		source = music.SourceCache
	}

	s.mu.Lock()
	stats.Processed++
	stats.BySource[source]++
	switch {
	case s.placer.targetYears[result.Year]:
		stats.ByYear[result.Year]++
	case result.Identified():
		stats.OtherYears++
	default:
		stats.Unknown++
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Resolution(source)
	}

	slog.Info("Resolved",
		"file", filepath.Base(path),
		"title", meta.Title,
		"artist", meta.Artist,
		"year", result.Year,
		"source", source,
		"confidence", result.Confidence,
	)

	if cfg.Tagging.WriteYear && s.tagWriter != nil && result.Identified() && meta.Year != result.Year {
		if err := s.tagWriter.WriteYear(ctx, path, result.Year); err != nil {
			slog.Warn("Failed to write year tag", "file", filepath.Base(path), "error", err)
		}
	}

	placement, err := s.placer.Place(path, result)
	if err != nil {
		slog.Error("Placement failed", "file", filepath.Base(path), "error", err)
		s.mu.Lock()
		stats.Errors++
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.Failed()
		}
		return
	}

	s.mu.Lock()
	stats.Moved++
	if placement.BackedUp {
		stats.BackedUp++
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Moved(placement.Category)
		if placement.BackedUp {
			s.metrics.BackedUp()
		}
	}
}

// StatsSnapshot returns a copy of the current run's statistics, or nil
// when no run has started.
func (s *Service) StatsSnapshot() *RunStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil
	}
	return s.stats.clone()
}
