package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/aggregate"
	"github.com/finsight-dev/finsight/internal/categorize"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/store"
	"github.com/finsight-dev/finsight/internal/store/filestore"
	"github.com/finsight-dev/finsight/internal/store/mongostore"
)

// loadConfig reads the config named by the --config flag, falling back to
// defaults when the file does not exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore builds the configured transaction store backend. The returned
// cleanup func releases any backend connection.
func openStore(ctx context.Context, cfg *config.Config) (store.TransactionStore, func(), error) {
	switch cfg.Store.Backend {
	case "", "file":
		return filestore.New(cfg.Store.Dir), func() {}, nil
	case "mongo":
		client, err := mongostore.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { _ = client.Disconnect(ctx) }
		provider := mongostore.NewProvider(client.Database(cfg.Store.Database))
		return mongostore.New(provider), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// loadClassifier builds the classifier from the configured rules file, or
// the built-in table.
func loadClassifier(cfg *config.Config) (*categorize.Classifier, error) {
	rules := categorize.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := categorize.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	return categorize.New(rules), nil
}

// loadBenchmarks builds the benchmark table from the configured file, or
// the built-in three brackets.
func loadBenchmarks(cfg *config.Config) (*aggregate.Benchmarks, error) {
	if cfg.BenchmarksFile != "" {
		return aggregate.LoadBenchmarks(cfg.BenchmarksFile)
	}
	return aggregate.DefaultBenchmarks(), nil
}
