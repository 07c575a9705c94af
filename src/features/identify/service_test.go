package identify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chronotune/src/music"
)

// mockTagReader returns canned metadata per path.
type mockTagReader struct {
	tags map[string]music.TrackMetadata
}

func (m *mockTagReader) ReadTags(ctx context.Context, path string) music.TrackMetadata {
	return m.tags[path]
}

// mockCache is an in-memory Cache recording flush calls.
type mockCache struct {
	entries map[string]music.CacheEntry
	flushes int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]music.CacheEntry)}
}

func (m *mockCache) Get(key string) (music.CacheEntry, bool) {
	entry, ok := m.entries[key]
	return entry, ok
}

func (m *mockCache) Put(key string, entry music.CacheEntry) {
	m.entries[key] = entry
}

func (m *mockCache) Flush() error {
	m.flushes++
	return nil
}

func writeTestFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestResolve_MetadataYearWinsWithoutSearch(t *testing.T) {
	path := writeTestFile(t, "track.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{
		path: {Title: "Song", Artist: "Artist", Year: 2024},
	}}
	searcher := &mockSearcher{}
	cache := newMockCache()
	service := NewService(cache, reader, NewEngine(searcher))

	result := service.Resolve(context.Background(), path)

	if result.Year != 2024 || result.Source != music.SourceMetadata || result.Confidence != 0.95 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(searcher.queries) != 0 {
		t.Errorf("tags supplied a year, expected no search calls, got %d", len(searcher.queries))
	}

	entry, ok := cache.Get(Fingerprint(path))
	if !ok {
		t.Fatal("expected positive result to be cached")
	}
	if entry.Year != 2024 || entry.Source != music.SourceMetadata || entry.Confidence != 0.95 {
		t.Errorf("cached entry mismatch: %+v", entry)
	}
}

func TestResolve_SearchConfidenceDependsOnArtist(t *testing.T) {
	withArtist := writeTestFile(t, "a.mp3")
	withoutArtist := writeTestFile(t, "b.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{
		withArtist:    {Title: "Known Song", Artist: "Known Artist"},
		withoutArtist: {Title: "Known Song"},
	}}

	for _, tc := range []struct {
		path       string
		confidence float64
	}{
		{withArtist, 0.85},
		{withoutArtist, 0.70},
	} {
		searcher := &mockSearcher{responses: [][]music.Candidate{
			{{Title: "Known Song", Artist: "Known Artist", ReleaseDate: "2019-01-01"}},
		}}
		service := NewService(newMockCache(), reader, NewEngine(searcher))

		result := service.Resolve(context.Background(), tc.path)
		if result.Year != 2019 || result.Source != music.SourceSpotify {
			t.Fatalf("unexpected result for %s: %+v", tc.path, result)
		}
		if result.Confidence != tc.confidence {
			t.Errorf("expected confidence %.2f for %s, got %.2f", tc.confidence, tc.path, result.Confidence)
		}
	}
}

func TestResolve_FilenameYearFallback(t *testing.T) {
	path := writeTestFile(t, "Artist - Song (2023) Live.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{}}
	service := NewService(newMockCache(), reader, nil) // search disabled

	result := service.Resolve(context.Background(), path)

	if result.Year != 2023 || result.Source != music.SourceFilename || result.Confidence != 0.60 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestResolve_UnknownIsNotCached(t *testing.T) {
	path := writeTestFile(t, "Song Title.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{}}
	cache := newMockCache()
	service := NewService(cache, reader, nil) // search disabled

	result := service.Resolve(context.Background(), path)

	if result.Identified() || result.Source != music.SourceUnknown || result.Confidence != 0.0 {
		t.Fatalf("expected unknown result, got %+v", result)
	}
	if len(cache.entries) != 0 {
		t.Errorf("negative result must not be cached, found %d entries", len(cache.entries))
	}
}

func TestResolve_SecondRunHitsCacheWithoutSearch(t *testing.T) {
	path := writeTestFile(t, "cached.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{
		path: {Title: "Cached Song", Artist: "Artist"},
	}}
	searcher := &mockSearcher{responses: [][]music.Candidate{
		{{Title: "Cached Song", Artist: "Artist", ReleaseDate: "2020"}},
	}}
	cache := newMockCache()
	service := NewService(cache, reader, NewEngine(searcher))

	first := service.Resolve(context.Background(), path)
	if first.Year != 2020 || first.Cached {
		t.Fatalf("unexpected first result: %+v", first)
	}
	callsAfterFirst := len(searcher.queries)

	second := service.Resolve(context.Background(), path)
	if second.Year != first.Year || second.Source != first.Source || second.Confidence != first.Confidence {
		t.Fatalf("cached result mismatch: first %+v, second %+v", first, second)
	}
	if !second.Cached {
		t.Error("expected second resolution to be marked as a cache hit")
	}
	if len(searcher.queries) != callsAfterFirst {
		t.Errorf("cache hit must consume zero search calls, got %d extra",
			len(searcher.queries)-callsAfterFirst)
	}
}

func TestResolve_CacheHitBypassesBetterSources(t *testing.T) {
	// First answer wins: a stale filename-sourced entry is returned even
	// when tags could now supply a better year.
	path := writeTestFile(t, "stale.mp3")
	cache := newMockCache()
	cache.Put(Fingerprint(path), music.CacheEntry{
		Year: 2010, Source: music.SourceFilename, Confidence: 0.60,
	})
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{
		path: {Title: "Song", Artist: "Artist", Year: 2024},
	}}
	service := NewService(cache, reader, nil)

	result := service.Resolve(context.Background(), path)
	if result.Year != 2010 || result.Source != music.SourceFilename || !result.Cached {
		t.Fatalf("expected stale cache entry to win, got %+v", result)
	}
}

func TestMetadata_FilenameBackfill(t *testing.T) {
	path := writeTestFile(t, "Some Artist - Some Song.mp3")
	reader := &mockTagReader{tags: map[string]music.TrackMetadata{}}
	service := NewService(newMockCache(), reader, nil)

	meta := service.Metadata(context.Background(), path)
	if meta.Title != "Some Song" || meta.Artist != "Some Artist" {
		t.Errorf("expected filename backfill, got %+v", meta)
	}
}

func TestFlushCache(t *testing.T) {
	cache := newMockCache()
	service := NewService(cache, &mockTagReader{}, nil)
	if err := service.FlushCache(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.flushes != 1 {
		t.Errorf("expected 1 flush, got %d", cache.flushes)
	}
}
