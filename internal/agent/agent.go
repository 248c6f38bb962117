// Package agent wires discovery, routing and import sessions into the
// run modes of the CLI: a one-shot inbox sweep or a continuous watch.
package agent

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/adapters/media"
	"github.com/albumkeep/albumkeep/internal/adapters/vault"
	"github.com/albumkeep/albumkeep/internal/albums"
	"github.com/albumkeep/albumkeep/internal/importer"
	"github.com/albumkeep/albumkeep/internal/ports"
)

// Config holds the resolved runtime configuration of the agent.
type Config struct {
	RootDir  string
	InboxDir string

	MarkerSuffix string
	AllowedTypes []string
	Location     *time.Location

	Watch             bool
	Debounce          time.Duration
	RemoveAfterImport bool
}

// Run discovers the albums under RootDir, builds the routing index and
// imports the inbox. With Watch set it then keeps watching the inbox and
// imports new files as they settle; otherwise it returns after one
// sweep-and-commit cycle.
//
// Discovery and index construction happen exactly once; sessions share
// them read-only.
func Run(ctx context.Context, cfg Config) error {
	if cfg.RootDir == "" {
		return fmt.Errorf("root dir is required")
	}
	if cfg.InboxDir == "" {
		return fmt.Errorf("inbox dir is required")
	}
	if cfg.Watch && cfg.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive in watch mode")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	backend := vault.NewBackend(logger)
	repos, err := albums.Discover(cfg.RootDir, cfg.MarkerSuffix, backend, logger)
	if err != nil {
		return fmt.Errorf("discover albums: %w", err)
	}
	index := albums.BuildIndex(repos, logger)
	logger.Info().Int("albums", len(repos)).Int("boundaries", index.Len()).Msg("routing index built")
	if index.Len() == 0 {
		logger.Warn().Str("root", cfg.RootDir).Msg("no autoadd boundaries found, nothing can be routed")
	}

	r := &runner{
		cfg:       cfg,
		index:     index,
		extractor: media.NewExtractor(logger),
		log:       logger,
	}

	if cfg.Watch && !cfg.RemoveAfterImport {
		logger.Warn().Msg("watch without remove-after-import will retry already-imported files every sweep")
	}

	res := r.sweep(ctx)
	if !cfg.Watch {
		if !res.committed {
			return fmt.Errorf("one or more albums failed to commit")
		}
		return nil
	}
	return r.watch(ctx)
}

// runner holds the shared, read-only collaborators of all sessions.
type runner struct {
	cfg       Config
	index     *albums.Index
	extractor ports.Extractor
	log       zerolog.Logger

	// sweepMu serializes sweeps: at most one session may write into the
	// albums at a time.
	sweepMu sync.Mutex
}

type sweepResult struct {
	scanned   int
	imported  int
	committed bool
}

// sweep runs one full import session over the inbox: walk, import every
// candidate, commit. Per-file failures only lower the imported count.
func (r *runner) sweep(ctx context.Context) sweepResult {
	r.sweepMu.Lock()
	defer r.sweepMu.Unlock()

	sess := importer.NewSession(importer.Config{
		AllowedTypes: importer.AllowTypes(r.cfg.AllowedTypes),
		Location:     r.cfg.Location,
	}, r.index, r.extractor, r.log)

	var res sweepResult
	var imported []string
	for _, path := range r.listInbox() {
		if ctx.Err() != nil {
			break
		}
		res.scanned++
		if sess.ImportFile(path) {
			res.imported++
			imported = append(imported, path)
		}
	}

	res.committed = sess.CommitAll()
	r.log.Info().
		Int("scanned", res.scanned).
		Int("imported", res.imported).
		Bool("committed", res.committed).
		Msg("import sweep finished")

	if res.committed && r.cfg.RemoveAfterImport {
		r.removeSources(imported)
	}
	return res
}

// listInbox walks the inbox and returns every regular file, in walk
// order. Hidden files and directories are left alone; unreadable
// subtrees are logged and skipped.
func (r *runner) listInbox() []string {
	var files []string
	err := filepath.WalkDir(r.cfg.InboxDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.log.Warn().Err(err).Str("path", path).Msg("cannot read inbox entry, skipping")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != r.cfg.InboxDir {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		r.log.Warn().Err(err).Str("inbox", r.cfg.InboxDir).Msg("inbox walk aborted")
	}
	return files
}

// removeSources deletes inbox files whose import was committed.
func (r *runner) removeSources(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			r.log.Warn().Err(err).Str("file", p).Msg("cannot remove imported file")
			continue
		}
		r.log.Debug().Str("file", p).Msg("removed imported file")
	}
}
