// Package media implements metadata extraction for candidate files:
// content-type sniffing plus creation timestamps from EXIF (JPEG/TIFF)
// and the MP4 movie header.
package media

import (
	"fmt"
	"os"
	"time"

	"github.com/abema/go-mp4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/albumkeep/albumkeep/internal/ports"
)

// mp4Epoch is the reference instant of MP4 creation times.
var mp4Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// Extractor detects content types and creation timestamps.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor returns an Extractor logging through log.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract sniffs the content type of the file at path and, for supported
// media types, digs out the embedded creation timestamp. A type without
// timestamp support, or media without an embedded timestamp, yields a
// zero Created; only an unreadable file is an error.
func (e *Extractor) Extract(path string) (ports.Metadata, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return ports.Metadata{}, fmt.Errorf("detect type of %s: %w", path, err)
	}
	meta := ports.Metadata{ContentType: mt.String()}

	switch {
	case mt.Is("image/jpeg"), mt.Is("image/tiff"):
		if t, ok := e.exifCreated(path); ok {
			meta.Created = t
		}
	case mt.Is("video/mp4"), mt.Is("video/quicktime"):
		if t, ok := e.mp4Created(path); ok {
			meta.Created = t
		}
	}
	return meta, nil
}

// exifCreated reads the EXIF DateTimeOriginal/DateTime of an image.
// Images without usable EXIF are common; failures only debug-log.
func (e *Extractor) exifCreated(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		e.log.Debug().Err(err).Str("file", path).Msg("cannot open for exif")
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		e.log.Debug().Err(err).Str("file", path).Msg("no exif data")
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil {
		e.log.Debug().Err(err).Str("file", path).Msg("no exif timestamp")
		return time.Time{}, false
	}
	return t, true
}

// mp4Created reads the creation time from the moov/mvhd box.
func (e *Extractor) mp4Created(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		e.log.Debug().Err(err).Str("file", path).Msg("cannot open for mvhd")
		return time.Time{}, false
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxWithPayload(f, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil || len(boxes) == 0 {
		e.log.Debug().Err(err).Str("file", path).Msg("no mvhd box")
		return time.Time{}, false
	}
	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return time.Time{}, false
	}

	secs := uint64(mvhd.CreationTimeV0)
	if mvhd.GetVersion() == 1 {
		secs = mvhd.CreationTimeV1
	}
	// Cameras that do not track time write zero, which would otherwise
	// route everything to 1904.
	if secs == 0 {
		return time.Time{}, false
	}
	return mp4Epoch.Add(time.Duration(secs) * time.Second), true
}
