package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/config"
	"github.com/mamadbah2/weaver/pkg/logger"
)

var envFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weaver",
		Short:         "Textile mill administration API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env when present)")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSalaryCmd(), newTokenCmd())
	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	baseLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(baseLogger)

	return cfg, baseLogger, nil
}
