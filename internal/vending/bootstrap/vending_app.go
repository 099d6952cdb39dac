package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/jwt"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/application"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	httpwrap "github.com/OmarShamkh/vending-machine-api/internal/vending/infrastructure/http"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/infrastructure/memory"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/infrastructure/postgres"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	"github.com/OmarShamkh/vending-machine-api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
	migrationsDir     = "."
)

type storage struct {
	users       domain.UserRepository
	products    domain.ProductRepository
	committer   domain.PurchaseCommitter
	healthCheck func(ctx context.Context) error
	dbpool      *pgxpool.Pool
}

type VendingApp struct {
	cfg          VendingConfig
	logger       logging.Logger
	accessLogger *zap.Logger

	// mu guards the fields below; Shutdown may run while Run is still
	// opening storage.
	mu       sync.Mutex
	stopping bool
	server   *http.Server
	dbpool   *pgxpool.Pool
}

func NewVendingApp(cfg VendingConfig, logger logging.Logger, accessLogger *zap.Logger) *VendingApp {
	return &VendingApp{
		cfg:          cfg,
		logger:       logger,
		accessLogger: accessLogger,
	}
}

// Run serves the API on lis until ctx is cancelled or the server fails.
func (a *VendingApp) Run(ctx context.Context, lis net.Listener) error {
	logger := a.logger
	cfg := a.cfg

	store, err := a.openStorage(ctx)
	if err != nil {
		return err
	}

	authCase := application.NewAuthCase(store.users, domain.NewArgonPasswordHasher(), jwt.NewJWTTokenIssuer(), cfg.JwtSecret, cfg.TokenTTL, logger)
	ledger := application.NewAccountLedger(store.users, logger)
	inventory := application.NewInventoryStore(store.products, logger)
	coordinator := application.NewPurchaseCoordinator(store.users, store.products, store.committer, logger)

	router := httpwrap.NewRouter(httpwrap.RouterConfig{
		Auth:         authCase,
		Inventory:    inventory,
		Ledger:       ledger,
		Purchases:    coordinator,
		TokenParser:  jwt.NewJWTTokenParser(),
		SecretKey:    cfg.JwtSecret,
		RetryPolicy:  cfg.RetryPolicy,
		Logger:       logger,
		AccessLogger: a.accessLogger,
		Metrics:      metrics.New(),
		HealthCheck:  store.healthCheck,
	})

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		if store.dbpool != nil {
			store.dbpool.Close()
		}
		_ = lis.Close()
		return nil
	}
	a.server = server
	a.dbpool = store.dbpool
	a.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "address", lis.Addr().String(), "storage", cfg.StorageDriver)
		if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("error while serving http: %w", err)
			return
		}

		errChan <- nil
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (a *VendingApp) openStorage(ctx context.Context) (storage, error) {
	if a.cfg.StorageDriver == StorageDriverMemory {
		store := memory.New()
		a.logger.Warn("using in-memory storage, data is lost on restart")

		return storage{users: store, products: store, committer: store}, nil
	}

	dbURL := a.cfg.DbSettings.GetUrl()

	if a.cfg.RunMigrations {
		if err := database.MigrateDatabase(dbURL, migrations.FS, migrationsDir); err != nil {
			return storage{}, err
		}
	}

	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return storage{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	txManager := database.NewDelegateTxManager(dbpool, a.logger)

	return storage{
		users:       postgres.NewUsersRepository(dbpool),
		products:    postgres.NewProductsRepository(dbpool),
		committer:   postgres.NewPurchaseCommitter(txManager),
		healthCheck: dbpool.Ping,
		dbpool:      dbpool,
	}, nil
}

// Shutdown stops the server and closes storage. Called before Run has
// started serving, it makes Run return without serving.
func (a *VendingApp) Shutdown() {
	a.mu.Lock()
	a.stopping = true
	server, dbpool := a.server, a.dbpool
	a.mu.Unlock()

	if server != nil {
		a.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed", "error", err.Error())
		}
	}

	if dbpool != nil {
		dbpool.Close()
	}
}
