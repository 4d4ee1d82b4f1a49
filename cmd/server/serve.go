package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/repository/sheets"
	"github.com/mamadbah2/weaver/internal/scheduler"
	"github.com/mamadbah2/weaver/internal/server/handlers"
	"github.com/mamadbah2/weaver/internal/server/middleware"
	"github.com/mamadbah2/weaver/internal/server/router"
	millsvc "github.com/mamadbah2/weaver/internal/service/mill"
	"github.com/mamadbah2/weaver/internal/service/notify"
	salarysvc "github.com/mamadbah2/weaver/internal/service/salary"
	"github.com/mamadbah2/weaver/pkg/clients/whatsapp"
	"github.com/mamadbah2/weaver/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the payroll scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, baseLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = baseLogger.Sync() }()

	store, err := openStore(parent, cfg, false, baseLogger)
	if err != nil {
		baseLogger.Error("failed to init store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	if err := store.Migrate(parent); err != nil {
		baseLogger.Error("schema migration failed", zap.Error(err))
		return err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	millSvc := millsvc.NewService(store, logger.Named(baseLogger, "svc.mill"))
	salarySvc := salarysvc.NewService(store, logger.Named(baseLogger, "svc.salary"))

	var exporters []scheduler.PayrollExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(parent, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Error("failed to init sheets repository", zap.Error(err))
			return err
		}
		exporters = append(exporters, sheets.NewPayrollExporter(sheetsRepo, cfg.Sheets.PayrollRange))
		baseLogger.Info("payroll export to google sheets enabled")
	} else {
		baseLogger.Warn("google sheet id missing, payroll export disabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsapp.NewClient(cfg.WhatsApp)
		exporters = append(exporters, notify.NewSalarySlipNotifier(whatsClient, store, logger.Named(baseLogger, "svc.notify")))
		baseLogger.Info("whatsapp salary slips enabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Payroll, salarySvc, store, logger.Named(baseLogger, "scheduler"), exporters...)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	engine := router.New(
		router.Options{
			BasePath:        cfg.Server.BasePath,
			CORSOrigins:     cfg.Server.CORSOrigins,
			SuperAdminEmail: cfg.Auth.SuperAdminEmail,
			StoreDriver:     cfg.Store.Driver,
		},
		handlers.NewMillHandler(millSvc, logger.Named(baseLogger, "handlers.mill")),
		handlers.NewSalaryHandler(salarySvc, logger.Named(baseLogger, "handlers.salary")),
		verifier,
		middleware.NewMetrics(),
		logger.Named(baseLogger, "router"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		baseLogger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			baseLogger.Error("http server crashed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
