// Package filestore implements the transaction store as one canonical CSV
// file per committed artifact. A batch is written to a temp file and
// renamed into place, so a commit is all-or-nothing and "file exists" is
// the idempotency marker.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finsight-dev/finsight/internal/model"
)

const batchesDir = "batches"

// Store is a file-backed TransactionStore rooted at a data directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// EnsureSchema creates the batches directory if absent. Never destructive.
func (s *Store) EnsureSchema(_ context.Context) error {
	if err := os.MkdirAll(filepath.Join(s.dir, batchesDir), 0o755); err != nil {
		return fmt.Errorf("creating batches dir: %w", err)
	}
	return nil
}

// Committed reports whether a batch file exists for the artifact.
func (s *Store) Committed(_ context.Context, artifact string) (bool, error) {
	_, err := os.Stat(s.batchPath(artifact))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat batch for %s: %w", artifact, err)
	}
	return true, nil
}

// Insert writes the batch atomically. An existing batch file for the same
// artifact is left untouched.
func (s *Store) Insert(ctx context.Context, artifact string, txns []model.Transaction) error {
	committed, err := s.Committed(ctx, artifact)
	if err != nil {
		return err
	}
	if committed {
		return nil
	}

	dir := filepath.Join(s.dir, batchesDir)
	tmp, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return fmt.Errorf("staging batch for %s: %w", artifact, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTransactions(tmp, txns); err != nil {
		tmp.Close()
		return fmt.Errorf("writing batch for %s: %w", artifact, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing staged batch for %s: %w", artifact, err)
	}

	if err := os.Rename(tmp.Name(), s.batchPath(artifact)); err != nil {
		return fmt.Errorf("committing batch for %s: %w", artifact, err)
	}
	return nil
}

// ReadAll returns every stored transaction, ordered by batch file name and
// row order within each batch.
func (s *Store) ReadAll(_ context.Context) ([]model.Transaction, error) {
	dir := filepath.Join(s.dir, batchesDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading batches dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var all []model.Transaction
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("opening batch %s: %w", name, err)
		}
		txns, err := ReadTransactions(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading batch %s: %w", name, err)
		}
		all = append(all, txns...)
	}
	return all, nil
}

func (s *Store) batchPath(artifact string) string {
	return filepath.Join(s.dir, batchesDir, sanitize(artifact)+".csv")
}

// sanitize turns an artifact identifier into a safe file name.
func sanitize(artifact string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, filepath.Base(artifact))
}
