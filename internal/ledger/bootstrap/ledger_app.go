package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/application"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	httpwrap "github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/infrastructure/http"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/infrastructure/memory"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/infrastructure/postgres"
	rediscache "github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/infrastructure/redis"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	"github.com/BalbekovAD/lipt-soft-small-bank/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
)

type ledgerStores struct {
	clients   domain.ClientRepository
	accounts  domain.AccountRepository
	txManager domain.TxManager
}

type LedgerApp struct {
	cfg    LedgerConfig
	logger logging.Logger

	server   *http.Server
	dbpool   *pgxpool.Pool
	redis    *goredis.Client
	shutdown sync.Once
}

func NewLedgerApp(cfg LedgerConfig, logger logging.Logger) *LedgerApp {
	return &LedgerApp{
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves the HTTP API on lis until ctx is done, then shuts down gracefully.
func (a *LedgerApp) Run(ctx context.Context, lis net.Listener) error {
	logger := a.logger

	stores, err := a.openStores(ctx)
	if err != nil {
		a.closeResources()
		return err
	}

	if a.cfg.RedisAddr != "" {
		rdb, err := rediscache.NewClient(ctx, a.cfg.RedisAddr)
		if err != nil {
			logger.Warn("client cache disabled", "error", err.Error())
		} else {
			a.redis = rdb
			stores.clients = rediscache.NewClientCache(stores.clients, rdb, a.cfg.ClientCacheTTL, logger)
		}
	}

	service := application.NewLedgerService(stores.clients, stores.accounts, stores.txManager, logger)

	metrics := httpwrap.NewMetrics()
	handler := httpwrap.NewLedgerHandler(service, metrics, logger)

	a.server = &http.Server{
		Handler:           httpwrap.NewRouter(handler, metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("starting http server", "addr", lis.Addr().String(), "store", a.cfg.Store)

		if err := a.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error while serving http: %w", err)
		}

		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		a.Shutdown()
		return nil
	})

	return eg.Wait()
}

func (a *LedgerApp) openStores(ctx context.Context) (ledgerStores, error) {
	switch a.cfg.Store {
	case StoreMemory:
		store := memory.NewStore(a.cfg.LockTimeout)
		return ledgerStores{clients: store, accounts: store, txManager: store}, nil

	case StorePostgres:
		dbURL := a.cfg.DbSettings.GetURL()

		err := database.MigrateDatabase(dbURL, migrations.FS, migrations.Dir, database.PgxDriverName, database.PostgresDialect)
		if err != nil {
			return ledgerStores{}, fmt.Errorf("failed to migrate database: %w", err)
		}

		dbpool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return ledgerStores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.dbpool = dbpool

		txManager := database.NewDelegateTxManager(dbpool, a.logger)

		return ledgerStores{
			clients:   postgres.NewClientsRepository(dbpool),
			accounts:  postgres.NewAccountsRepository(dbpool),
			txManager: postgres.NewLedgerTxManager(txManager, a.cfg.LockTimeout),
		}, nil
	}

	return ledgerStores{}, fmt.Errorf("unknown store %q", a.cfg.Store)
}

func (a *LedgerApp) Shutdown() {
	a.shutdown.Do(func() {
		if a.server != nil {
			a.logger.Info("shutting down http server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := a.server.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("server shutdown failed", "error", err.Error())
			}
		}

		a.closeResources()
		a.logger.Info("ledger stopped")
	})
}

func (a *LedgerApp) closeResources() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis client", "error", err.Error())
		}
		a.redis = nil
	}

	if a.dbpool != nil {
		a.dbpool.Close()
		a.dbpool = nil
	}
}
