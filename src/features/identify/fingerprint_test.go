package identify

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFingerprint_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	first := Fingerprint(path)
	second := Fingerprint(path)
	if first != second {
		t.Errorf("expected stable fingerprint, got %q then %q", first, second)
	}
	if len(first) != 32 {
		t.Errorf("expected 32-char md5 hex, got %q", first)
	}
}

func TestFingerprint_ChangesWithModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	before := Fingerprint(path)
	newTime := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, newTime, newTime); err != nil {
		t.Fatalf("failed to touch file: %v", err)
	}
	after := Fingerprint(path)

	if before == after {
		t.Error("expected fingerprint to change after touch")
	}
}

func TestFingerprint_MissingFileFallsOpen(t *testing.T) {
	got := Fingerprint(filepath.Join(t.TempDir(), "nope.mp3"))
	if got == "" {
		t.Fatal("expected non-empty fallback fingerprint")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path fallback, got %q", got)
	}
}
