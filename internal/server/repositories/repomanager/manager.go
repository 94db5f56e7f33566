// Package repomanager owns the connection to the configured account store,
// prepares its schema and hands out repositories bound to it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
)

type Manager interface {
	// Accounts returns the repository bound to the manager's connection.
	Accounts() accounts.Repository
	// RunMigrations brings the store schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	// WithinTx runs fn against a repository whose calls form one unit of work.
	// Backends without transactions run fn against the plain repository.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error
	Close(ctx context.Context) error
}

// New connects to the store selected by cfg.StoreDriver.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Manager, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		log.Info(ctx, "connecting to store", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StorePostgres:
		log.Info(ctx, "connecting to store", "driver", cfg.StoreDriver)
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.StoreMemory:
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return NewMemoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
