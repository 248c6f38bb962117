package vault

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Writer batches staged copies for one repository. It is not safe for
// concurrent use; the import session serializes access.
type Writer struct {
	repo   string
	dir    string // private batch dir under .staging
	staged []string
	log    zerolog.Logger
}

// Stage copies the source file into the batch directory under
// targetName. The repository itself is untouched until Commit.
func (w *Writer) Stage(sourcePath, targetName string) error {
	if targetName != filepath.Base(targetName) || targetName == "" {
		return fmt.Errorf("invalid target name %q", targetName)
	}
	for _, s := range w.staged {
		if s == targetName {
			return fmt.Errorf("%s already staged in this batch", targetName)
		}
	}
	if err := copyFile(sourcePath, filepath.Join(w.dir, targetName)); err != nil {
		return err
	}
	w.staged = append(w.staged, targetName)
	return nil
}

// Commit moves every staged file into the repository root and records a
// manifest of the batch. Existing files are never overwritten. The batch
// directory is removed regardless of outcome, so a failed commit leaves
// no staging debris behind.
func (w *Writer) Commit() error {
	defer os.RemoveAll(w.dir)

	if len(w.staged) == 0 {
		return nil
	}
	for _, name := range w.staged {
		final := filepath.Join(w.repo, name)
		if _, err := os.Lstat(final); err == nil {
			return fmt.Errorf("%s already exists in %s", name, w.repo)
		}
		if err := os.Rename(filepath.Join(w.dir, name), final); err != nil {
			return fmt.Errorf("place %s: %w", name, err)
		}
	}
	if err := w.writeManifest(); err != nil {
		// The files are already in place; a lost manifest is worth a
		// warning, not a failed import.
		w.log.Warn().Err(err).Str("album", w.repo).Msg("cannot record commit manifest")
	}
	return nil
}

type manifest struct {
	CommittedAt time.Time `json:"committed_at"`
	Files       []string  `json:"files"`
}

func (w *Writer) writeManifest() error {
	dir := filepath.Join(w.repo, commitsDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	m := manifest{CommittedAt: time.Now().UTC(), Files: w.staged}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, m.CommittedAt.Format("20060102-150405.000000000")+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
