package tag

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"chronotune/src/music"
)

// Reader reads embedded metadata using the dhowden/tag library. Files with
// missing or malformed tags yield an empty record, never an error: the
// identification waterfall has other sources to fall back on.
type Reader struct{}

// NewReader creates a new tag Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTags reads the embedded metadata of a music file.
func (r *Reader) ReadTags(ctx context.Context, filePath string) music.TrackMetadata {
	defer func() {
		// Some malformed files make the tag parser panic.
		if rec := recover(); rec != nil {
			slog.Warn("Tag parser panicked", "file", filepath.Base(filePath), "panic", rec)
		}
	}()

	file, err := os.Open(filePath)
	if err != nil {
		slog.Debug("Failed to open file for tag reading", "file", filepath.Base(filePath), "error", err)
		return music.TrackMetadata{}
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		slog.Debug("Failed to read tags", "file", filepath.Base(filePath), "error", err)
		return music.TrackMetadata{}
	}

	meta := music.TrackMetadata{
		Title:  strings.TrimSpace(tags.Title()),
		Artist: strings.TrimSpace(tags.Artist()),
		Album:  strings.TrimSpace(tags.Album()),
		Year:   tags.Year(),
		Genre:  strings.TrimSpace(tags.Genre()),
	}

	r.estimateAudioProperties(filePath, &meta)
	return meta
}

// estimateAudioProperties fills in duration and bitrate for FLAC files from
// the file size. FLAC is typically 44.1kHz 16-bit stereo; a 1000 kbps average
// is a reasonable compression estimate.
func (r *Reader) estimateAudioProperties(filePath string, meta *music.TrackMetadata) {
	if strings.ToLower(filepath.Ext(filePath)) != ".flac" {
		return
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return
	}

	estimatedBitrate := 1000 // kbps
	meta.Bitrate = estimatedBitrate
	meta.Duration = int(fileInfo.Size() * 8 / int64(estimatedBitrate*1000))
}
