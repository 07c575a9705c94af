package identify

import (
	"context"

	"chronotune/src/music"
)

// TagReader extracts embedded tag metadata from an audio file.
// Implementations must not let decode failures escape: on any error they
// return an all-empty metadata record.
type TagReader interface {
	ReadTags(ctx context.Context, path string) music.TrackMetadata
}

// TrackSearcher is the remote track-search capability.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]music.Candidate, error)
}

// Cache memoizes positive identifications keyed by file fingerprint.
type Cache interface {
	Get(key string) (music.CacheEntry, bool)
	Put(key string, entry music.CacheEntry)
	Flush() error
}
