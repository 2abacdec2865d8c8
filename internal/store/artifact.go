package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// archiveDir is the namespace artifacts move to after a confirmed commit.
const archiveDir = "archive"

// LocalArtifactStore serves artifacts from a local directory and archives
// them into an archive/ subdirectory.
type LocalArtifactStore struct {
	dir string
}

// NewLocalArtifactStore creates a LocalArtifactStore rooted at dir.
func NewLocalArtifactStore(dir string) *LocalArtifactStore {
	return &LocalArtifactStore{dir: dir}
}

// Open opens the named artifact for reading.
func (s *LocalArtifactStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("opening artifact %s: %w", name, err)
	}
	return f, nil
}

// Archive moves the artifact to archive/<name>. If the artifact is gone
// but its archived copy exists, a previous run already moved it and this
// is a no-op success.
func (s *LocalArtifactStore) Archive(_ context.Context, name string) error {
	name = filepath.Base(name)
	src := filepath.Join(s.dir, name)
	dstDir := filepath.Join(s.dir, archiveDir)
	dst := filepath.Join(dstDir, name)

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		if _, archErr := os.Stat(dst); archErr == nil {
			return nil
		}
		return fmt.Errorf("artifact %s not found for archival", name)
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to archive: %w", name, err)
	}
	return nil
}

// ArchivedPath returns where the named artifact lives after archival.
func (s *LocalArtifactStore) ArchivedPath(name string) string {
	return filepath.Join(s.dir, archiveDir, filepath.Base(name))
}
