// Package ingest drives raw rows through normalization and classification
// into a validated batch.
package ingest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/finsight-dev/finsight/internal/model"
	"github.com/finsight-dev/finsight/internal/normalize"
)

// EmptyBatchError signals that no valid rows survived normalization. A
// file that yields nothing is an error, not a silently empty success.
type EmptyBatchError struct {
	Artifact string
	Rejected int
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("artifact %s: no valid rows (%d rejected)", e.Artifact, e.Rejected)
}

// Ingestor processes each row independently and best-effort: rejections
// are recorded, never thrown, and never abort the batch.
type Ingestor struct {
	norm    *normalize.Normalizer
	workers int
}

// New creates an Ingestor. workers bounds row-level parallelism; values
// below 1 mean sequential.
func New(norm *normalize.Normalizer, workers int) *Ingestor {
	if workers < 1 {
		workers = 1
	}
	return &Ingestor{norm: norm, workers: workers}
}

type rowResult struct {
	txn model.Transaction
	rej *model.Rejection
}

// Ingest normalizes rows into a Batch. Rows are processed concurrently but
// the batch reassembles them in source order, so downstream aggregation
// and rejection reporting stay deterministic.
func (ing *Ingestor) Ingest(artifact string, rows []model.RawRow) (*model.Batch, error) {
	results := make([]rowResult, len(rows))

	workers := ing.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers > 1 {
		indexes := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					results[i] = ing.processRow(i, rows[i])
				}
			}()
		}
		for i := range rows {
			indexes <- i
		}
		close(indexes)
		wg.Wait()
	} else {
		for i, row := range rows {
			results[i] = ing.processRow(i, row)
		}
	}

	batch := &model.Batch{Artifact: artifact}
	for _, res := range results {
		if res.rej != nil {
			batch.Rejections = append(batch.Rejections, *res.rej)
			continue
		}
		batch.Transactions = append(batch.Transactions, res.txn)
	}

	if len(batch.Transactions) == 0 {
		return nil, &EmptyBatchError{Artifact: artifact, Rejected: len(batch.Rejections)}
	}
	return batch, nil
}

func (ing *Ingestor) processRow(index int, row model.RawRow) rowResult {
	txn, err := ing.norm.Normalize(row)
	if err != nil {
		var rowErr *normalize.RowError
		reason := model.ReasonInvalidAmount
		if errors.As(err, &rowErr) {
			reason = rowErr.Reason
		}
		return rowResult{rej: &model.Rejection{Row: index, Reason: reason}}
	}
	return rowResult{txn: txn}
}
