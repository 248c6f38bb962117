package albums

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/albumkeep/albumkeep/internal/ports"
)

type boundary struct {
	at   time.Time
	repo ports.Repository
}

// Index is the global time-ordered routing index. It maps an autoadd
// boundary timestamp to the repository that declared it and answers floor
// lookups: a file belongs to the repository whose most recent boundary is
// not later than the file's own creation time.
//
// An Index is built once at startup and read-only afterwards, so it may
// be shared across sessions without synchronization.
type Index struct {
	entries []boundary // ascending by at, timestamps strictly unique
}

// BuildIndex merges the boundary timestamps of all repositories, in
// discovery order. A repository whose boundaries cannot be read
// contributes nothing. When two repositories declare the same timestamp
// the later-discovered one wins; that tie-break is part of the observed
// routing behavior and is kept on purpose.
func BuildIndex(repos []ports.Repository, log zerolog.Logger) *Index {
	ix := &Index{}
	for _, repo := range repos {
		ts, err := repo.ListBoundaries()
		if err != nil {
			log.Warn().Err(err).Str("album", repo.Path()).Msg("cannot read autoadd boundaries")
			continue
		}
		for _, t := range ts {
			ix.insert(t, repo)
		}
	}
	return ix
}

func (ix *Index) insert(at time.Time, repo ports.Repository) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return !ix.entries[i].at.Before(at)
	})
	if i < len(ix.entries) && ix.entries[i].at.Equal(at) {
		ix.entries[i].repo = repo
		return
	}
	ix.entries = append(ix.entries, boundary{})
	copy(ix.entries[i+1:], ix.entries[i:])
	ix.entries[i] = boundary{at: at, repo: repo}
}

// RepositoryFor returns the repository owning the greatest boundary not
// later than t. The second result is false when t precedes every known
// boundary or the index is empty.
func (ix *Index) RepositoryFor(t time.Time) (ports.Repository, bool) {
	i := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].at.After(t)
	})
	if i == 0 {
		return nil, false
	}
	return ix.entries[i-1].repo, true
}

// Len returns the number of distinct boundary timestamps indexed.
func (ix *Index) Len() int { return len(ix.entries) }
