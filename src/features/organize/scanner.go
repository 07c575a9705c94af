package organize

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"chronotune/src/music"
)

// scanFiles walks the library root collecting supported audio files,
// skipping the bucket directories the organizer itself manages. Unreadable
// entries are skipped, not fatal.
func scanFiles(root string, exclude map[string]bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("Skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if music.IsSupportedFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
