// Package store defines the durable transaction store and source-artifact
// store abstractions consumed by the storage sink.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/finsight-dev/finsight/internal/model"
)

// TransactionStore persists committed batches. Implementations must make
// Insert all-or-nothing per artifact and EnsureSchema idempotent and
// never destructive.
type TransactionStore interface {
	// EnsureSchema creates the backing table/collection if absent.
	EnsureSchema(ctx context.Context) error
	// Committed reports whether the artifact was already durably stored.
	Committed(ctx context.Context, artifact string) (bool, error)
	// Insert durably stores the batch keyed by artifact. Invoking it twice
	// for the same artifact must not duplicate rows.
	Insert(ctx context.Context, artifact string, txns []model.Transaction) error
	// ReadAll returns every stored transaction in deterministic order.
	ReadAll(ctx context.Context) ([]model.Transaction, error)
}

// ArtifactStore hands out source artifacts and relocates them after a
// confirmed commit.
type ArtifactStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Archive moves (not copies) the artifact under the archive namespace,
	// keyed by its original name. Archiving an already-archived artifact
	// is a no-op success.
	Archive(ctx context.Context, name string) error
}

// PersistenceError is fatal for the run: the store write failed, the batch
// is not marked done, and the artifact stays in place for a retry from
// scratch.
type PersistenceError struct {
	Artifact string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting artifact %s: %v", e.Artifact, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ArchiveFailed means the data is already durably stored and only the
// cleanup move failed. Retryable; a retry must not re-insert.
type ArchiveFailed struct {
	Artifact string
	Err      error
}

func (e *ArchiveFailed) Error() string {
	return fmt.Sprintf("archiving artifact %s: %v", e.Artifact, e.Err)
}

func (e *ArchiveFailed) Unwrap() error { return e.Err }
