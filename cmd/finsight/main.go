package main

import (
	"context"
	"os"

	"github.com/finsight-dev/finsight/internal/commands"
	"github.com/finsight-dev/finsight/internal/logging"
)

func main() {
	ctx := logging.WithContext(context.Background(), logging.New())

	rootCmd := commands.NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger := logging.FromContext(ctx)
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
