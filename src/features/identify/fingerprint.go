package identify

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Fingerprint derives a cache key for a file from its size, base name and
// modification time. It never reads file content: the key is a cheap proxy
// for "same file, not re-examined", invalidated by any rename, resize or
// touch. If the file cannot be stat'd the absolute path is returned instead,
// so the function fails open.
func Fingerprint(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			return abs
		}
		return path
	}

	h := md5.New()
	io.WriteString(h, strconv.FormatInt(info.Size(), 10))
	io.WriteString(h, filepath.Base(path))
	io.WriteString(h, strconv.FormatInt(info.ModTime().UnixNano(), 10))
	return hex.EncodeToString(h.Sum(nil))
}
