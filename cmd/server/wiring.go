package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/config"
	"github.com/mamadbah2/weaver/internal/repository"
	"github.com/mamadbah2/weaver/internal/repository/memory"
	"github.com/mamadbah2/weaver/internal/repository/mongodb"
	"github.com/mamadbah2/weaver/internal/repository/postgres"
	"github.com/mamadbah2/weaver/pkg/clients/identity"
	"github.com/mamadbah2/weaver/pkg/logger"
)

// openStore connects the configured backend. forceMigrate overrides
// DB_AUTO_MIGRATE for the relational store.
func openStore(ctx context.Context, cfg *config.Config, forceMigrate bool, baseLogger *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case repository.DriverMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	case repository.DriverPostgres:
		repo, err := postgres.NewRepository(cfg.Postgres.DSN, cfg.Postgres.AutoMigrate || forceMigrate, logger.Named(baseLogger, "repo.postgres"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	case repository.DriverMemory:
		baseLogger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func newVerifier(cfg config.AuthConfig) (identity.Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeFirebase:
		return identity.NewFirebaseVerifier(cfg.FirebaseProjectID, cfg.CertsURL), nil
	case config.AuthModeHMAC:
		return identity.NewHMACVerifier(cfg.HMACSecret), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
