// Package sink commits validated batches to the transaction store and
// archives their source artifacts. Archival strictly follows a confirmed
// commit, and the whole operation is safe under at-least-once invocation.
package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-dev/finsight/internal/logging"
	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/store"
)

// CommitResult describes the outcome of a commit.
type CommitResult struct {
	CommitID         string
	Artifact         string
	Inserted         int
	Rejected         int
	AlreadyCommitted bool
	Archived         bool
}

// Sink persists batches and archives their artifacts.
type Sink struct {
	store     store.TransactionStore
	artifacts store.ArtifactStore
	timeout   time.Duration
}

// New creates a Sink. timeout bounds each store and archive operation;
// zero means no bound.
func New(txns store.TransactionStore, artifacts store.ArtifactStore, timeout time.Duration) *Sink {
	return &Sink{store: txns, artifacts: artifacts, timeout: timeout}
}

// Commit persists the batch, then archives the artifact. Invoking Commit
// twice for the same artifact is a no-op success: the commit is keyed on
// the artifact identifier. An archive failure after a confirmed commit is
// returned as *store.ArchiveFailed so the caller can retry cleanup without
// re-inserting.
func (s *Sink) Commit(ctx context.Context, batch *model.Batch) (CommitResult, error) {
	log := logging.FromContext(ctx)
	result := CommitResult{
		CommitID: uuid.NewString(),
		Artifact: batch.Artifact,
		Rejected: len(batch.Rejections),
	}

	err := s.bounded(ctx, func(opCtx context.Context) error {
		var checkErr error
		result.AlreadyCommitted, checkErr = s.store.Committed(opCtx, batch.Artifact)
		return checkErr
	})
	if err != nil {
		return result, &store.PersistenceError{Artifact: batch.Artifact, Err: err}
	}

	if result.AlreadyCommitted {
		log.Info().Str("artifact", batch.Artifact).Msg("artifact already committed, archiving only")
		if err := s.archive(ctx, batch.Artifact); err != nil {
			return result, err
		}
		result.Archived = true
		return result, nil
	}

	if verrs := ValidateBatch(batch); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return result, fmt.Errorf("batch validation failed: %s", strings.Join(msgs, "; "))
	}

	if err = s.bounded(ctx, s.store.EnsureSchema); err != nil {
		return result, &store.PersistenceError{Artifact: batch.Artifact, Err: err}
	}

	err = s.bounded(ctx, func(opCtx context.Context) error {
		return s.store.Insert(opCtx, batch.Artifact, batch.Transactions)
	})
	if err != nil {
		// Batch is not marked done; artifact stays put for a retry from
		// scratch.
		return result, &store.PersistenceError{Artifact: batch.Artifact, Err: err}
	}
	result.Inserted = len(batch.Transactions)
	log.Info().
		Str("artifact", batch.Artifact).
		Str("commit_id", result.CommitID).
		Int("inserted", result.Inserted).
		Int("rejected", result.Rejected).
		Msg("batch committed")

	if err := s.archive(ctx, batch.Artifact); err != nil {
		return result, err
	}
	result.Archived = true
	return result, nil
}

func (s *Sink) archive(ctx context.Context, artifact string) error {
	err := s.bounded(ctx, func(opCtx context.Context) error {
		return s.artifacts.Archive(opCtx, artifact)
	})
	if err != nil {
		// Data is already durably stored; only cleanup failed.
		return &store.ArchiveFailed{Artifact: artifact, Err: err}
	}
	return nil
}

// bounded runs op under the configured per-operation timeout.
func (s *Sink) bounded(ctx context.Context, op func(context.Context) error) error {
	if s.timeout <= 0 {
		return op(ctx)
	}
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return op(opCtx)
}
