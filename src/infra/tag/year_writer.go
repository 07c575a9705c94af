package tag

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// YearWriter writes a resolved year back into a file's embedded tags.
// Only MP3 and FLAC are supported; other formats are silently skipped.
type YearWriter struct{}

// NewYearWriter creates a new YearWriter.
func NewYearWriter() *YearWriter {
	return &YearWriter{}
}

// WriteYear updates the year tag of the file in place.
func (w *YearWriter) WriteYear(ctx context.Context, filePath string, year int) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		return w.writeMP3(filePath, year)
	case ".flac":
		return w.writeFLAC(filePath, year)
	default:
		slog.Debug("Year write-back not supported for format", "file", filepath.Base(filePath))
		return nil
	}
}

// writeMP3 updates the year frame using id3v2, preserving the other frames.
func (w *YearWriter) writeMP3(filePath string, year int) error {
	t, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer t.Close()

	t.SetYear(strconv.Itoa(year))

	if err := t.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}
	return nil
}

// writeFLAC replaces the DATE field of the Vorbis comment block.
func (w *YearWriter) writeFLAC(filePath string, year int) error {
	f, err := goflac.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	var vorbisComment *flacvorbis.MetaDataBlockVorbisComment
	var commentIndex = -1

	for idx, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			vorbisComment, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("failed to parse Vorbis comment: %w", err)
			}
			commentIndex = idx
			break
		}
	}

	if vorbisComment == nil {
		vorbisComment = flacvorbis.New()
	}

	// Drop any existing DATE entries so the new one is authoritative.
	kept := vorbisComment.Comments[:0]
	for _, comment := range vorbisComment.Comments {
		if !strings.HasPrefix(strings.ToUpper(comment), flacvorbis.FIELD_DATE+"=") {
			kept = append(kept, comment)
		}
	}
	vorbisComment.Comments = kept
	vorbisComment.Add(flacvorbis.FIELD_DATE, strconv.Itoa(year))

	commentMeta := vorbisComment.Marshal()
	if commentIndex >= 0 {
		f.Meta[commentIndex] = &commentMeta
	} else {
		f.Meta = append(f.Meta, &commentMeta)
	}

	if err := f.Save(filePath); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}
	return nil
}
