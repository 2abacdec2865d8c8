package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/auditlog"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/ingest"
	"github.com/finsight-dev/finsight/internal/logging"
	"github.com/finsight-dev/finsight/internal/normalize"
	"github.com/finsight-dev/finsight/internal/sink"
	"github.com/finsight-dev/finsight/internal/store"
)

func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <artifact.csv>",
		Short: "Ingest a statement file into the transaction store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg, args[0])
		},
	}
	return cmd
}

func runIngest(ctx context.Context, cfg *config.Config, path string) error {
	log := logging.FromContext(ctx)
	artifact := filepath.Base(path)

	artifacts := store.NewLocalArtifactStore(filepath.Dir(path))
	txnStore, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	classifier, err := loadClassifier(cfg)
	if err != nil {
		return err
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(artifact)), ".")
	source := ingest.DefaultRegistry().Get(format)
	if source == nil {
		return fmt.Errorf("no source registered for format %q", format)
	}

	f, err := artifacts.Open(ctx, artifact)
	if err != nil {
		return err
	}
	rows, err := source.Rows(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", artifact, err)
	}

	ingestor := ingest.New(normalize.New(classifier), cfg.Ingest.Workers)
	batch, err := ingestor.Ingest(artifact, rows)
	if err != nil {
		return err
	}

	for _, rej := range batch.Rejections {
		log.Warn().
			Str("artifact", artifact).
			Int("row", rej.Row).
			Str("reason", string(rej.Reason)).
			Msg("row rejected")
	}

	timeout := time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second
	result, commitErr := sink.New(txnStore, artifacts, timeout).Commit(ctx, batch)

	audit := auditlog.New(cfg.Ingest.LogFile)
	entry := auditlog.Entry{
		Timestamp: time.Now().UTC(),
		Artifact:  artifact,
		CommitID:  result.CommitID,
		Ingested:  result.Inserted,
		Rejected:  result.Rejected,
		Status:    commitStatus(result, commitErr),
	}
	if auditErr := audit.Append(entry); auditErr != nil {
		log.Warn().Err(auditErr).Msg("writing ingest log")
	}

	if commitErr != nil {
		var archiveErr *store.ArchiveFailed
		if errors.As(commitErr, &archiveErr) {
			// Data is stored; only the cleanup move needs a retry.
			log.Warn().Err(commitErr).Msg("commit succeeded but archival failed")
			return commitErr
		}
		return commitErr
	}

	fmt.Printf("Ingested %s: %d transactions, %d rejected\n", artifact, result.Inserted, result.Rejected)
	return nil
}

func commitStatus(result sink.CommitResult, err error) string {
	switch {
	case err == nil && result.AlreadyCommitted:
		return "already-committed"
	case err == nil:
		return "committed"
	default:
		var archiveErr *store.ArchiveFailed
		if errors.As(err, &archiveErr) {
			return "archive-failed"
		}
		return "failed"
	}
}
