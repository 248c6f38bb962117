package ports

import "time"

// Metadata describes a candidate file.
type Metadata struct {
	// ContentType is the detected MIME type, e.g. "image/jpeg".
	ContentType string

	// Created is the embedded creation timestamp of the media.
	// Zero when the file carries no recoverable timestamp.
	Created time.Time
}

// Extractor derives classification metadata for a candidate file.
type Extractor interface {
	// Extract inspects the file at path. It returns an error only when
	// the file cannot be read or its type cannot be determined; a
	// missing creation timestamp is reported via a zero Metadata.Created.
	Extract(path string) (Metadata, error)
}
