// Package importer implements the per-run import session: classify a
// candidate file, route it to an album through the routing index, and
// defer the write through a per-album batching writer until CommitAll.
package importer

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/albums"
	"github.com/albumkeep/albumkeep/internal/ports"
)

// targetNameLayout yields a fixed-width, lexically sortable prefix so
// files within an album order by creation time.
const targetNameLayout = "2006-01-02-15-04-05"

// Config carries the classification settings of a session.
type Config struct {
	// AllowedTypes is the set of importable content types.
	AllowedTypes map[string]struct{}

	// Location is the time zone used for the filename prefix. Routing
	// itself compares instants and is unaffected.
	Location *time.Location
}

// AllowTypes builds the allowlist set from a list of content types.
func AllowTypes(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Session is the unit of work spanning zero or more ImportFile calls
// followed by one CommitAll. Writers are created lazily, one per album,
// and reused for every file routed there within the session.
//
// ImportFile and CommitAll share one mutex: imports cannot race on the
// writer map and a commit cannot overlap an in-flight import.
type Session struct {
	cfg       Config
	index     *albums.Index
	extractor ports.Extractor
	log       zerolog.Logger

	mu      sync.Mutex
	writers map[string]ports.Writer // keyed by repository path
}

// NewSession creates a session against a prebuilt routing index.
func NewSession(cfg Config, index *albums.Index, extractor ports.Extractor, log zerolog.Logger) *Session {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Session{
		cfg:       cfg,
		index:     index,
		extractor: extractor,
		log:       log,
		writers:   make(map[string]ports.Writer),
	}
}

// ImportFile classifies the file at path, routes it to its album and
// stages it for the final commit. It returns false when the file was not
// imported: unreadable, unsupported type, no creation timestamp, no album
// covering the timestamp, or a staging failure. None of these abort the
// session or affect other files.
func (s *Session) ImportFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.extractor.Extract(path)
	if err != nil {
		s.log.Warn().Err(err).Str("file", path).Msg("cannot read file")
		return false
	}
	if _, ok := s.cfg.AllowedTypes[meta.ContentType]; !ok {
		s.log.Info().Str("file", path).Str("type", meta.ContentType).Msg("unsupported content type")
		return false
	}
	if meta.Created.IsZero() {
		s.log.Info().Str("file", path).Msg("no creation timestamp")
		return false
	}

	target := meta.Created.In(s.cfg.Location).Format(targetNameLayout) + "-" + filepath.Base(path)

	repo, ok := s.index.RepositoryFor(meta.Created)
	if !ok {
		s.log.Info().Str("file", path).Time("created", meta.Created).Msg("no album covers timestamp")
		return false
	}

	w, ok := s.writers[repo.Path()]
	if !ok {
		nw, err := repo.NewWriter()
		if err != nil {
			s.log.Warn().Err(err).Str("album", repo.Path()).Msg("cannot create album writer")
			return false
		}
		s.writers[repo.Path()] = nw
		w = nw
	}

	s.log.Info().Str("file", path).Str("album", repo.Path()).Str("target", target).Msg("import")
	if err := w.Stage(path, target); err != nil {
		s.log.Warn().Err(err).Str("file", path).Str("album", repo.Path()).Msg("cannot stage file")
		return false
	}
	return true
}

// CommitAll flushes every writer the session accumulated. Each writer is
// committed even when an earlier one failed; the result is true only when
// all commits succeeded. An empty session commits successfully. The
// writer map is cleared regardless of outcome, so the session is clean
// afterwards.
func (s *Session) CommitAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.writers = make(map[string]ports.Writer)
	}()

	ok := true
	for path, w := range s.writers {
		if err := w.Commit(); err != nil {
			s.log.Error().Err(err).Str("album", path).Msg("commit failed")
			ok = false
			continue
		}
		s.log.Info().Str("album", path).Msg("committed")
	}
	return ok
}
