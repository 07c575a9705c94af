package identify

import (
	"context"
	"log/slog"
	"time"

	"chronotune/src/music"
)

// Confidence assigned per identification source. Tags are trusted highest;
// a search hit without a known artist is weaker than one with; a filename
// year token is weakest.
const (
	metadataConfidence       = 0.95
	searchConfidence         = 0.85
	searchNoArtistConfidence = 0.70
	filenameConfidence       = 0.60
)

// Service resolves a release year for a file by trying identification
// sources in strict priority order: cache, embedded tags, remote search,
// filename year token. It owns the cache for its lifetime and memoizes
// positive results only.
type Service struct {
	cache  Cache
	tags   TagReader
	engine *Engine
}

// NewService creates a new year resolver. engine may be nil when the remote
// search capability is disabled; the search step is then skipped entirely.
func NewService(cache Cache, tags TagReader, engine *Engine) *Service {
	return &Service{cache: cache, tags: tags, engine: engine}
}

// Resolve identifies the release year of one file. It never returns an
// error: every source failure degrades to the next source, and an
// unidentified file yields a zero-year result with source "unknown".
func (s *Service) Resolve(ctx context.Context, path string) music.Result {
	key := Fingerprint(path)
	if entry, ok := s.cache.Get(key); ok {
		slog.Debug("Cache hit", "path", path, "year", entry.Year, "source", entry.Source)
		return entry.Result()
	}

	meta := s.Metadata(ctx, path)

	if meta.Year != 0 {
		result := music.Result{
			Year:       meta.Year,
			Source:     music.SourceMetadata,
			Confidence: metadataConfidence,
		}
		s.remember(key, result)
		return result
	}

	if s.engine != nil && meta.Title != "" {
		if year, ok := s.engine.Search(ctx, meta.Title, meta.Artist); ok {
			confidence := searchNoArtistConfidence
			if meta.Artist != "" {
				confidence = searchConfidence
			}
			result := music.Result{
				Year:       year,
				Source:     music.SourceSpotify,
				Confidence: confidence,
			}
			s.remember(key, result)
			return result
		}
	}

	if year, ok := YearFromStem(music.Stem(path)); ok {
		result := music.Result{
			Year:       year,
			Source:     music.SourceFilename,
			Confidence: filenameConfidence,
		}
		s.remember(key, result)
		return result
	}

	slog.Debug("No year identified", "path", path)
	return music.Result{Source: music.SourceUnknown}
}

// Metadata extracts tag metadata for a file, backfilling missing title and
// artist from the filename stem.
func (s *Service) Metadata(ctx context.Context, path string) music.TrackMetadata {
	meta := s.tags.ReadTags(ctx, path)

	if meta.Title == "" || meta.Artist == "" {
		title, artist := ParseStem(music.Stem(path))
		if meta.Title == "" {
			meta.Title = title
		}
		if meta.Artist == "" {
			meta.Artist = artist
		}
	}

	meta.Title = collapseWhitespace(meta.Title)
	meta.Artist = collapseWhitespace(meta.Artist)
	meta.Album = collapseWhitespace(meta.Album)
	meta.Genre = collapseWhitespace(meta.Genre)
	return meta
}

// FlushCache persists pending cache entries.
func (s *Service) FlushCache() error {
	return s.cache.Flush()
}

// remember caches a resolution, but only when it carries a year: negative
// results are never cached so failed files are retried on every run.
func (s *Service) remember(key string, result music.Result) {
	if !result.Identified() {
		return
	}
	s.cache.Put(key, music.CacheEntry{
		Year:       result.Year,
		Source:     result.Source,
		Confidence: result.Confidence,
		Timestamp:  time.Now(),
	})
}
