// Package vault implements the repository backend on plain directories.
//
// A repository is a directory whose name carries the configured marker
// suffix. Its boundary timestamps live in an "autoadd" file at the root,
// one RFC3339 timestamp per line. Writers stage copies under a private
// .staging directory and commit by renaming the staged files into place,
// recording a JSON manifest of every commit under .commits.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/ports"
)

const (
	// MarkerSuffix is the directory-name convention denoting a
	// repository root.
	MarkerSuffix = ".album"

	autoaddFile = "autoadd"
	stagingDir  = ".staging"
	commitsDir  = ".commits"
)

// Backend opens vault repositories.
type Backend struct {
	log zerolog.Logger
}

// NewBackend returns a Backend logging through log.
func NewBackend(log zerolog.Logger) *Backend {
	return &Backend{log: log}
}

// Open validates that path is a listable directory and returns its
// handle. Anything else means the candidate is malformed.
func (b *Backend) Open(path string) (ports.Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}
	if _, err := os.ReadDir(path); err != nil {
		return nil, fmt.Errorf("list repository: %w", err)
	}
	return &Repository{path: path, log: b.log}, nil
}

// Repository is one vault album on disk.
type Repository struct {
	path string
	log  zerolog.Logger
}

// Path returns the repository root path.
func (r *Repository) Path() string { return r.path }

// ListBoundaries reads the autoadd file. A missing file means the
// repository declares no boundaries. Blank lines and lines starting with
// '#' are ignored; unparsable lines are logged and skipped so one typo
// does not hide the remaining boundaries.
func (r *Repository) ListBoundaries() ([]time.Time, error) {
	raw, err := os.ReadFile(filepath.Join(r.path, autoaddFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []time.Time
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := time.Parse(time.RFC3339, line)
		if err != nil {
			r.log.Warn().Err(err).Str("album", r.path).Int("line", i+1).Msg("bad autoadd timestamp, skipping")
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// NewWriter creates a private staging directory for one import batch.
func (r *Repository) NewWriter() (ports.Writer, error) {
	if err := os.MkdirAll(filepath.Join(r.path, stagingDir), 0o700); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	dir, err := os.MkdirTemp(filepath.Join(r.path, stagingDir), "batch-*")
	if err != nil {
		return nil, fmt.Errorf("create batch dir: %w", err)
	}
	return &Writer{repo: r.path, dir: dir, log: r.log}, nil
}
