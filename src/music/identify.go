package music

import "time"

// Source names the identification source that produced a year.
type Source string

const (
	SourceCache    Source = "cache"
	SourceMetadata Source = "metadata"
	SourceSpotify  Source = "spotify-search"
	SourceFilename Source = "filename"
	SourceUnknown  Source = "unknown"
	SourceError    Source = "error"
)

// Result is the outcome of resolving a release year for one file.
// A zero Year means the file could not be identified.
type Result struct {
	Year       int     `json:"year"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence"`
	Cached     bool    `json:"cached"`
}

// Identified reports whether the resolution produced a year.
func (r Result) Identified() bool {
	return r.Year != 0
}

// CacheEntry is a memoized positive identification, keyed by file fingerprint.
// Entries are only ever written for identified files; unknowns are retried.
type CacheEntry struct {
	Year       int       `json:"year"`
	Source     Source    `json:"source"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Result converts the cached entry back into a resolution result.
func (e CacheEntry) Result() Result {
	return Result{
		Year:       e.Year,
		Source:     e.Source,
		Confidence: e.Confidence,
		Cached:     true,
	}
}
