package ports

import "time"

// Backend opens repository roots found during discovery.
// Open is called once per candidate directory; a failure means the
// candidate is malformed and aborts discovery.
type Backend interface {
	// Open returns a handle for the repository rooted at path.
	Open(path string) (Repository, error)
}

// Repository is one versioned album identified by its filesystem path.
// Handles are created once at startup and shared read-only afterwards.
type Repository interface {
	// Path returns the repository root path. It identifies the
	// repository for the lifetime of the process.
	Path() string

	// ListBoundaries returns the autoadd boundary timestamps declared
	// by this repository. An empty slice means the repository never
	// receives routed files.
	ListBoundaries() ([]time.Time, error)

	// NewWriter returns a fresh writer for batching imports into this
	// repository. At most one writer per repository is active within a
	// session.
	NewWriter() (Writer, error)
}

// Writer batches staged files for one repository until committed.
// Writers are session-scoped and not safe for concurrent use.
type Writer interface {
	// Stage records sourcePath for import under targetName. The file
	// is not visible in the repository until Commit.
	Stage(sourcePath, targetName string) error

	// Commit makes all staged files visible and releases the writer's
	// resources. Committing a writer with nothing staged succeeds.
	Commit() error
}
