package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-dev/finsight/internal/config"
)

func newInitCommand() *cobra.Command {
	var withSample bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsight project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, withSample)
		},
	}

	cmd.Flags().BoolVar(&withSample, "sample", false, "write a sample statement CSV into import/")

	return cmd
}

func runInit(dir string, withSample bool) error {
	cfg := config.Default()

	dirs := []string{
		cfg.Ingest.ImportDir,
		cfg.Store.Dir,
		filepath.Dir(cfg.Ingest.LogFile),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if withSample {
		path := filepath.Join(dir, cfg.Ingest.ImportDir, "sample-statement.csv")
		if err := os.WriteFile(path, []byte(sampleStatement), 0o644); err != nil {
			return fmt.Errorf("writing sample statement: %w", err)
		}
	}

	fmt.Printf("Initialized finsight project in %s\n", dir)
	return nil
}

// sampleStatement exercises both the debit/credit pair convention and the
// category keyword table.
const sampleStatement = `Date,Description,Debit (-),Credit (+)
2024-01-02,Rent Payment,1800.00,
2024-01-03,Salary Deposit,,5000.00
2024-01-05,Shell Gas Station,40.00,
2024-01-08,Grocery Store,112.53,
2024-01-12,Electric Bill,98.10,
2024-01-15,Streaming Service,15.99,
2024-01-20,Pharmacy,23.45,
2024-02-01,Rent Payment,1800.00,
2024-02-03,Salary Deposit,,5000.00
2024-02-07,Restaurant Downtown,64.20,
2024-02-11,Gym Membership,35.00,
2024-02-18,Amazon Order,89.99,
`
