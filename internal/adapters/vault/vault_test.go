package vault

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "test.album")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	repo, err := NewBackend(zerolog.Nop()).Open(dir)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	return repo.(*Repository)
}

func writeAutoadd(t *testing.T, repo *Repository, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo.Path(), autoaddFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenRejectsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-dir.album")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBackend(zerolog.Nop()).Open(path); err == nil {
		t.Fatal("expected open to fail for a regular file")
	}
}

func TestListBoundaries(t *testing.T) {
	repo := newRepo(t)
	writeAutoadd(t, repo, "# seeded by admin\n2020-01-01T00:00:00Z\n\n2021-06-15T12:30:00+02:00\nnot-a-timestamp\n")

	got, err := repo.ListBoundaries()
	if err != nil {
		t.Fatalf("ListBoundaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(got))
	}
	if !got[0].Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first boundary %v", got[0])
	}
}

func TestListBoundariesMissingFile(t *testing.T) {
	repo := newRepo(t)
	got, err := repo.ListBoundaries()
	if err != nil {
		t.Fatalf("expected missing autoadd to mean no boundaries, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no boundaries, got %d", len(got))
	}
}

func TestWriterStageAndCommit(t *testing.T) {
	repo := newRepo(t)
	src := filepath.Join(t.TempDir(), "IMG_01.JPG")
	if err := os.WriteFile(src, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := repo.NewWriter()
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Stage(src, "2023-05-01-10-20-30-IMG_01.JPG"); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	// Nothing visible before commit.
	final := filepath.Join(repo.Path(), "2023-05-01-10-20-30-IMG_01.JPG")
	if _, err := os.Stat(final); err == nil {
		t.Fatal("staged file must not be visible before commit")
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	b, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("expected committed file: %v", err)
	}
	if string(b) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", b)
	}

	// Staging debris is gone.
	batches, err := os.ReadDir(filepath.Join(repo.Path(), stagingDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 0 {
		t.Fatalf("expected staging dir to be empty, found %d entries", len(batches))
	}
}

func TestWriterCommitRecordsManifest(t *testing.T) {
	repo := newRepo(t)
	src := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := repo.NewWriter()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stage(src, "2020-01-02-03-04-05-a.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(repo.Path(), commitsDir))
	if err != nil {
		t.Fatalf("expected commits dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 manifest, got %d", len(entries))
	}
	b, err := os.ReadFile(filepath.Join(repo.Path(), commitsDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(m.Files) != 1 || m.Files[0] != "2020-01-02-03-04-05-a.jpg" {
		t.Fatalf("unexpected manifest files %v", m.Files)
	}
}

func TestWriterCommitRefusesOverwrite(t *testing.T) {
	repo := newRepo(t)
	src := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(repo.Path(), "2020-01-02-03-04-05-a.jpg")
	if err := os.WriteFile(existing, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := repo.NewWriter()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stage(src, "2020-01-02-03-04-05-a.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(); err == nil {
		t.Fatal("expected commit to refuse overwriting an existing file")
	}
	b, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "original" {
		t.Fatal("existing file was overwritten")
	}
}

func TestWriterEmptyCommitSucceeds(t *testing.T) {
	repo := newRepo(t)
	w, err := repo.NewWriter()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("empty commit: %v", err)
	}
	if _, err := os.Stat(filepath.Join(repo.Path(), commitsDir)); err == nil {
		t.Fatal("empty commit must not record a manifest")
	}
}

func TestWriterRejectsPathyTargetNames(t *testing.T) {
	repo := newRepo(t)
	src := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := repo.NewWriter()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stage(src, filepath.Join("..", "escape.jpg")); err == nil {
		t.Fatal("expected path-like target name to be rejected")
	}
}
