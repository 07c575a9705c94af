package music

import (
	"path/filepath"
	"strings"
)

// supportedExtensions are the audio formats the organizer will consider.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".mp4":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
	".aac":  true,
}

// IsSupportedFile reports whether the path has a supported audio extension.
func IsSupportedFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
