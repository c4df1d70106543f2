package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trungle-dev/ethtribute/internal/api"
	"github.com/trungle-dev/ethtribute/internal/core/config"
	"github.com/trungle-dev/ethtribute/internal/infra/explorer"
	redisclient "github.com/trungle-dev/ethtribute/internal/infra/redis"
	"github.com/trungle-dev/ethtribute/internal/infra/storage"
	"github.com/trungle-dev/ethtribute/internal/infra/storage/memory"
	"github.com/trungle-dev/ethtribute/internal/infra/storage/postgres"
	"github.com/trungle-dev/ethtribute/internal/ingest/donation"
	"github.com/trungle-dev/ethtribute/internal/ingest/ens"
	"github.com/trungle-dev/ethtribute/internal/ingest/poller"
	"github.com/trungle-dev/ethtribute/internal/ingest/scanner"
	"github.com/trungle-dev/ethtribute/internal/ingest/transfer"
)

// migrationsDir is resolved relative to the working directory.
const migrationsDir = "migrations"

// Watcher is the main application struct that wires the ingestion pipeline
// to its collaborators and manages their lifecycle.
type Watcher struct {
	cfg            Config
	loop           *poller.Loop
	apiServer      *api.Server
	db             *postgres.DB
	redisClient    *redisclient.Client
	transferClient *ethclient.Client
	donationClient *ethclient.Client
	log            *slog.Logger
}

// Config holds the application configuration.
type Config struct {
	Port     int
	Watch    config.WatchConfig
	Redis    redisclient.Config
	Database postgres.Config
}

// NewWatcher creates a new Watcher instance with all dependencies initialized.
func NewWatcher(ctx context.Context, cfg Config) (*Watcher, error) {

	// 1. Initialize Storage
	var transferRepo storage.TransferRepository
	var donationRepo storage.DonationRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(migrationsDir); err != nil {
			return nil, err
		}
		transferRepo = postgres.NewTransferRepo(db)
		donationRepo = postgres.NewDonationRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		transferRepo = memory.NewTransferRepo(store)
		donationRepo = memory.NewDonationRepo(store)
		slog.Info("Using Memory storage")
	}

	// 2. Optional Redis name cache
	var redisClient *redisclient.Client
	var nameCache ens.NameCache
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, name cache disabled", "error", err)
		} else {
			nameCache = redisClient
		}
	}

	// 3. Chain readers: one endpoint for ENS lookups, one for log scanning
	transferClient, err := ethclient.DialContext(ctx, cfg.Watch.TransferRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial transfer rpc: %w", err)
	}
	donationClient, err := ethclient.DialContext(ctx, cfg.Watch.DonationRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial donation rpc: %w", err)
	}

	// 4. Ingestion pipeline
	resolver := ens.NewResolver(transferClient, nameCache)
	processor := donation.NewProcessor(donationRepo, resolver)
	scan := scanner.New(
		donationClient,
		common.HexToAddress(cfg.Watch.DonationAddress),
		cfg.Watch.StartBlock,
		processor,
	)
	explorerClient := explorer.NewClient(
		cfg.Watch.Etherscan.BaseURL,
		cfg.Watch.Etherscan.APIKey,
		cfg.Watch.ChainID,
	)
	reconciler := transfer.NewReconciler(
		explorerClient,
		transferRepo,
		resolver,
		cfg.Watch.TransferAddress,
	)
	loop := poller.New(reconciler, scan, cfg.Watch.PollInterval)

	// 5. Read-only query surface
	var health api.HealthFunc
	if db != nil {
		health = db.Health
	}
	apiServer := api.NewServer(transferRepo, donationRepo, health, cfg.Port)

	return &Watcher{
		cfg:            cfg,
		loop:           loop,
		apiServer:      apiServer,
		db:             db,
		redisClient:    redisClient,
		transferClient: transferClient,
		donationClient: donationClient,
		log:            slog.Default(),
	}, nil
}

// Start starts the API server and the background ingestion loop.
func (w *Watcher) Start(ctx context.Context) error {
	go func() {
		if err := w.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.log.Error("API server failed", "error", err)
		}
	}()

	if w.db != nil {
		w.db.StartMetricsCollector(ctx)
	}

	w.log.Info("Starting poll loop",
		"transfer_address", w.cfg.Watch.TransferAddress,
		"donation_address", w.cfg.Watch.DonationAddress,
		"start_block", w.cfg.Watch.StartBlock,
		"interval", w.cfg.Watch.PollInterval,
	)
	go func() {
		if err := w.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.log.Error("Poll loop exited", "error", err)
		}
	}()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	w.log.Info("Stopping Watcher...")

	w.transferClient.Close()
	w.donationClient.Close()

	if w.redisClient != nil {
		if err := w.redisClient.Close(); err != nil {
			w.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil {
			w.log.Warn("Failed to close database", "error", err)
		}
	}

	return w.apiServer.Stop(ctx)
}
