package organize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chronotune/src/features/config"
	"chronotune/src/music"
)

type mockResolver struct {
	results map[string]music.Result
	meta    map[string]music.TrackMetadata
	flushes int
}

func (m *mockResolver) Resolve(ctx context.Context, path string) music.Result {
	if r, ok := m.results[filepath.Base(path)]; ok {
		return r
	}
	return music.Result{Source: music.SourceUnknown}
}

func (m *mockResolver) Metadata(ctx context.Context, path string) music.TrackMetadata {
	return m.meta[filepath.Base(path)]
}

func (m *mockResolver) FlushCache() error {
	m.flushes++
	return nil
}

type mockHistory struct {
	saved []RunRecord
}

func (m *mockHistory) SaveRun(ctx context.Context, record RunRecord) error {
	m.saved = append(m.saved, record)
	return nil
}

func (m *mockHistory) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	return m.saved, nil
}

func testConfig(root string) *config.Manager {
	return config.NewManager(&config.Config{
		LibraryPath: root,
		Years:       []int{2024, 2025},
		Buckets:     config.Buckets{OtherYears: "other_years", Unidentified: "unidentified"},
		Backup:      config.Backup{Enabled: false, Dir: "backup"},
		Cache:       config.Cache{Path: filepath.Join(root, "cache.json"), FlushEvery: 50},
	})
}

func testService(cfg *config.Manager, resolver Resolver, history HistoryStore) *Service {
	c := cfg.Get()
	placer := NewPlacer(c.LibraryPath, map[int]bool{2024: true, 2025: true},
		c.Buckets.OtherYears, c.Buckets.Unidentified, c.Backup.Dir, c.Backup.Enabled)
	return NewService(cfg, resolver, placer, nil, history, nil, nil)
}

func TestRun_SortsFilesIntoBuckets(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"current.mp3", "older.mp3", "mystery.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	resolver := &mockResolver{
		results: map[string]music.Result{
			"current.mp3": {Year: 2024, Source: music.SourceMetadata, Confidence: 0.95},
			"older.mp3":   {Year: 2019, Source: music.SourceSpotify, Confidence: 0.85},
		},
		meta: map[string]music.TrackMetadata{
			"current.mp3": {Title: "Current", Artist: "Someone", Year: 2024},
		},
	}
	history := &mockHistory{}
	svc := testService(testConfig(root), resolver, history)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("expected 3 supported files scanned, got %d", stats.Total)
	}
	if stats.Processed != 3 {
		t.Errorf("expected 3 processed, got %d", stats.Processed)
	}
	if stats.ByYear[2024] != 1 {
		t.Errorf("expected one file in 2024, got %d", stats.ByYear[2024])
	}
	if stats.OtherYears != 1 {
		t.Errorf("expected one other-years file, got %d", stats.OtherYears)
	}
	if stats.Unknown != 1 {
		t.Errorf("expected one unknown file, got %d", stats.Unknown)
	}
	if stats.Moved != 3 {
		t.Errorf("expected 3 moved, got %d", stats.Moved)
	}
	if stats.BySource[music.SourceMetadata] != 1 || stats.BySource[music.SourceSpotify] != 1 {
		t.Errorf("unexpected source counts: %v", stats.BySource)
	}

	for path, want := range map[string]bool{
		filepath.Join(root, "2024", "current.mp3"):        true,
		filepath.Join(root, "other_years", "older.mp3"):   true,
		filepath.Join(root, "unidentified", "mystery.mp3"): true,
		filepath.Join(root, "notes.txt"):                  true, // unsupported, untouched
	} {
		if _, err := os.Stat(path); (err == nil) != want {
			t.Errorf("unexpected state for %s: %v", path, err)
		}
	}

	if len(history.saved) != 1 {
		t.Fatalf("expected one run record, got %d", len(history.saved))
	}
	if history.saved[0].Stats.Processed != 3 {
		t.Errorf("record stats not captured: %+v", history.saved[0].Stats)
	}
}

func TestRun_CachedResultsCountedAsCacheSource(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "song.mp3"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	resolver := &mockResolver{
		results: map[string]music.Result{
			"song.mp3": {Year: 2024, Source: music.SourceMetadata, Confidence: 0.95, Cached: true},
		},
	}
	svc := testService(testConfig(root), resolver, nil)

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.BySource[music.SourceCache] != 1 {
		t.Errorf("cached result should count under cache source: %v", stats.BySource)
	}
	if stats.BySource[music.SourceMetadata] != 0 {
		t.Errorf("cached result counted under original source: %v", stats.BySource)
	}
}

func TestRun_FlushCadence(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := testConfig(root)
	c := cfg.Get()
	c.Cache.FlushEvery = 2
	resolver := &mockResolver{}
	svc := testService(cfg, resolver, nil)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// Two incremental flushes (after files 2 and 4) plus the final one.
	if resolver.flushes != 3 {
		t.Errorf("expected 3 flushes, got %d", resolver.flushes)
	}
}

func TestRun_CancellationStopsBetweenFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "song.mp3"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	resolver := &mockResolver{}
	history := &mockHistory{}
	svc := testService(testConfig(root), resolver, history)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("interrupted run should still return stats: %v", err)
	}
	if stats.Processed != 0 {
		t.Errorf("no file should be processed after cancel, got %d", stats.Processed)
	}
	if _, err := os.Stat(filepath.Join(root, "song.mp3")); err != nil {
		t.Errorf("file should be untouched after cancel: %v", err)
	}
	// The run is still flushed and recorded.
	if resolver.flushes != 1 {
		t.Errorf("expected final flush on interrupt, got %d", resolver.flushes)
	}
	if len(history.saved) != 1 {
		t.Errorf("interrupted run should still be recorded, got %d records", len(history.saved))
	}
}

func TestStatsSnapshot_NilBeforeFirstRun(t *testing.T) {
	svc := testService(testConfig(t.TempDir()), &mockResolver{}, nil)
	if svc.StatsSnapshot() != nil {
		t.Error("expected nil snapshot before first run")
	}
}
