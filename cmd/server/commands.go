package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/config"
	"github.com/mamadbah2/weaver/internal/domain/models"
	salarysvc "github.com/mamadbah2/weaver/internal/service/salary"
	"github.com/mamadbah2/weaver/pkg/clients/identity"
	"github.com/mamadbah2/weaver/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured store and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, baseLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = baseLogger.Sync() }()

			store, err := openStore(cmd.Context(), cfg, true, baseLogger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate %s store: %w", cfg.Store.Driver, err)
			}
			baseLogger.Info("migration complete", zap.String("driver", cfg.Store.Driver))
			return nil
		},
	}
}

func newSalaryCmd() *cobra.Command {
	var workerID, from, to string

	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Print a worker's salary report for an inclusive date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := salarysvc.ValidateRange(workerID, from, to); err != nil {
				return err
			}

			cfg, baseLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = baseLogger.Sync() }()

			store, err := openStore(cmd.Context(), cfg, false, baseLogger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			report, err := salarysvc.NewService(store, logger.Named(baseLogger, "svc.salary")).Calculate(cmd.Context(), workerID, from, to)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&workerID, "worker", "", "worker id")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("worker")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		id  models.Identity
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for AUTH_MODE=hmac deployments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cfg.Auth.Mode != config.AuthModeHMAC {
				return errors.New("token minting requires AUTH_MODE=hmac")
			}

			raw, err := identity.SignHMAC(cfg.Auth.HMACSecret, id, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), raw)
			return err
		},
	}

	cmd.Flags().StringVar(&id.UID, "uid", "", "subject of the token")
	cmd.Flags().StringVar(&id.Email, "email", "", "email claim")
	cmd.Flags().BoolVar(&id.Admin, "admin", false, "grant the admin claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
