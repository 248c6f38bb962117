package albums

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/ports"
)

// Discover walks the tree under root and opens every repository found.
//
// A directory whose name ends in markerSuffix is a repository root: it is
// opened through the backend and not descended into. Any other directory
// is scanned for repositories further down. Directories that cannot be
// listed are logged and skipped; a marker directory that fails to open is
// fatal, since a malformed repository would invalidate routing for the
// whole run.
//
// The walk uses an explicit worklist, not call recursion, so pathological
// tree depth cannot exhaust the stack. Sibling directories are visited in
// name order, which makes discovery order (and therefore boundary
// tie-breaking) deterministic for an unchanged tree.
func Discover(root, markerSuffix string, backend ports.Backend, log zerolog.Logger) ([]ports.Repository, error) {
	if markerSuffix == "" {
		return nil, fmt.Errorf("marker suffix is required")
	}

	var repos []ports.Repository
	worklist := []string{root}
	for len(worklist) > 0 {
		dir := worklist[0]
		worklist = worklist[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("cannot list directory, skipping")
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub := filepath.Join(dir, e.Name())
			if !strings.HasSuffix(e.Name(), markerSuffix) {
				worklist = append(worklist, sub)
				continue
			}
			repo, err := backend.Open(sub)
			if err != nil {
				return nil, fmt.Errorf("open repository %s: %w", sub, err)
			}
			log.Debug().Str("album", sub).Msg("discovered album")
			repos = append(repos, repo)
		}
	}
	return repos, nil
}
