package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"chronotune/src/music"
)

// Category is the destination bucket chosen for a placed file.
type Category string

const (
	CategoryTargetYear   Category = "target-year"
	CategoryOtherYears   Category = "other-years"
	CategoryUnidentified Category = "unidentified"
)

// Placement describes where a file ended up.
type Placement struct {
	Category    Category
	Destination string
	BackedUp    bool
}

// Placer moves resolved files into year-bucketed directories under the
// library root, with an optional pre-move backup copy. It never overwrites:
// name collisions get a numeric suffix, with independent counters for the
// backup and move paths.
type Placer struct {
	root            string
	targetYears     map[int]bool
	otherYearsDir   string
	unidentifiedDir string
	backupDir       string
	backupEnabled   bool
}

// NewPlacer creates a placement engine rooted at the library path.
func NewPlacer(root string, targetYears map[int]bool, otherYears, unidentified, backupDir string, backupEnabled bool) *Placer {
	return &Placer{
		root:            root,
		targetYears:     targetYears,
		otherYearsDir:   filepath.Join(root, otherYears),
		unidentifiedDir: filepath.Join(root, unidentified),
		backupDir:       filepath.Join(root, backupDir),
		backupEnabled:   backupEnabled,
	}
}

// EnsureDirectories creates every destination bucket idempotently.
func (p *Placer) EnsureDirectories() error {
	dirs := []string{p.otherYearsDir, p.unidentifiedDir}
	for year := range p.targetYears {
		dirs = append(dirs, filepath.Join(p.root, strconv.Itoa(year)))
	}
	if p.backupEnabled {
		dirs = append(dirs, p.backupDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExcludedDirNames returns the bucket directory names the scanner must skip.
func (p *Placer) ExcludedDirNames() map[string]bool {
	exclude := map[string]bool{
		filepath.Base(p.otherYearsDir):   true,
		filepath.Base(p.unidentifiedDir): true,
		filepath.Base(p.backupDir):       true,
	}
	for year := range p.targetYears {
		exclude[strconv.Itoa(year)] = true
	}
	return exclude
}

// Place backs up (when enabled) and moves one file to its bucket. Backup
// failure is logged and never blocks the move; a move failure is returned.
func (p *Placer) Place(path string, result music.Result) (Placement, error) {
	placement := Placement{}

	if p.backupEnabled {
		backedUp, err := p.backup(path)
		if err != nil {
			slog.Warn("Backup failed, moving anyway", "file", filepath.Base(path), "error", err)
		}
		placement.BackedUp = backedUp
	}

	var destDir string
	switch {
	case p.targetYears[result.Year]:
		placement.Category = CategoryTargetYear
		destDir = filepath.Join(p.root, strconv.Itoa(result.Year))
	case result.Identified() && result.Confidence >= 0.5:
		placement.Category = CategoryOtherYears
		destDir = p.otherYearsDir
	default:
		placement.Category = CategoryUnidentified
		destDir = p.unidentifiedDir
	}

	destPath := nextFreePath(destDir, filepath.Base(path))
	if err := moveFile(path, destPath); err != nil {
		return placement, fmt.Errorf("failed to move %s: %w", filepath.Base(path), err)
	}

	placement.Destination = destPath
	slog.Debug("Placed file", "file", filepath.Base(path), "category", placement.Category, "dest", destPath)
	return placement, nil
}

// backup copies the file into the backup directory. A same-named backup of
// the same size is assumed to be the same file and skipped; other name
// collisions get a numeric suffix. Reports whether a new copy was made.
func (p *Placer) backup(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	backupPath := filepath.Join(p.backupDir, filepath.Base(path))
	if existing, err := os.Stat(backupPath); err == nil {
		if existing.Size() == info.Size() {
			slog.Debug("Backup already exists", "file", filepath.Base(path))
			return false, nil
		}
		backupPath = nextFreePath(p.backupDir, filepath.Base(path))
	}

	if err := copyFile(path, backupPath); err != nil {
		return false, err
	}
	return true, nil
}

// nextFreePath appends _1, _2, ... to the stem until the name is free in dir.
func nextFreePath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	counter := 1
	for {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		counter++
	}
}

// moveFile renames the file, falling back to copy-then-delete when the
// destination is on a different filesystem.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove original after copy: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()
	_, err = io.Copy(destination, source)
	return err
}
