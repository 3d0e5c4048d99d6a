package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	copanyservice "copany/contexts/collaboration/copany-service"
	copanypostgres "copany/contexts/collaboration/copany-service/adapters/postgres"
	distributionengine "copany/contexts/finance-core/distribution-engine"
	distributionpostgres "copany/contexts/finance-core/distribution-engine/adapters/postgres"
	distributionworkers "copany/contexts/finance-core/distribution-engine/application/workers"
	"copany/contexts/finance-core/distribution-engine/domain/services"
	ledgerservice "copany/contexts/finance-core/ledger-service"
	ledgerpostgres "copany/contexts/finance-core/ledger-service/adapters/postgres"
	"copany/contexts/finance-core/ledger-service/adapters/rates"
	"copany/internal/platform/config"
	"copany/internal/platform/db"
	"copany/internal/platform/httpserver"
	"copany/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	recompute    distributionworkers.HistoricalRecomputeJob
	outboxRelay  distributionworkers.OutboxRelay
	sweepEvery   time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("COPANY_POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	copanyModule, ledgerModule, distributionModule := buildModules(cfg, pg, logger)

	server := httpserver.New(copanyModule, ledgerModule, distributionModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("COPANY_POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	_, _, distributionModule := buildModules(cfg, pg, logger)
	distributionRepo := distributionpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		recompute: distributionworkers.HistoricalRecomputeJob{
			Copanies: distributionRepo,
			Commands: distributionModule.Commands,
			Logger:   logger,
		},
		outboxRelay: distributionworkers.OutboxRelay{
			Outbox:    distributionRepo,
			Publisher: bus,
			Clock:     distributionpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		sweepEvery:   time.Duration(cfg.WorkerIntervalMinutes) * time.Minute,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func buildModules(cfg config.Config, pg *db.Postgres, logger *slog.Logger) (copanyservice.Module, ledgerservice.Module, distributionengine.Module) {
	copanyRepo := copanypostgres.NewRepository(pg.DB, logger)
	copanyModule := copanyservice.NewModule(copanyservice.Dependencies{
		Repository: copanyRepo,
		Clock:      copanypostgres.SystemClock{},
		IDGen:      copanypostgres.UUIDGenerator{},
		Logger:     logger,
	})

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledgerModule := ledgerservice.NewModule(ledgerservice.Dependencies{
		Repository: ledgerRepo,
		Rates:      rates.StaticSource{},
		Clock:      ledgerpostgres.SystemClock{},
		IDGen:      ledgerpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	distributionRepo := distributionpostgres.NewRepository(pg.DB, logger)
	distributionModule := distributionengine.NewModule(distributionengine.Dependencies{
		Copanies:        distributionRepo,
		Transactions:    distributionRepo,
		Issues:          distributionRepo,
		Contributors:    distributionRepo,
		AppRevenue:      ledgerModule.Queries,
		Store:           distributionRepo,
		Locker:          distributionpostgres.NewLocker(pg.DB, time.Duration(cfg.LockTTLSeconds)*time.Second),
		Clock:           distributionpostgres.SystemClock{},
		IDGen:           distributionpostgres.UUIDGenerator{},
		Outbox:          distributionRepo,
		ZeroScorePolicy: zeroScorePolicy(cfg.ZeroScorePolicy),
		Logger:          logger,
	})

	return copanyModule, ledgerModule, distributionModule
}

func zeroScorePolicy(value string) services.ZeroScorePolicy {
	if value == "baseline_split" {
		return services.ZeroScoreBaselineSplit
	}
	return services.ZeroScoreOwnerTakesAll
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run alternates a fast outbox drain with a slow full-history sweep. The
// sweep honors per-copany leases, so overlapping worker replicas are safe.
func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	sweep := time.NewTicker(w.sweepEvery)
	defer sweep.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"sweep_interval", w.sweepEvery.String(),
	)

	if _, err := w.recompute.RunOnce(ctx); err != nil {
		return err
	}

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-sweep.C:
			if _, err := w.recompute.RunOnce(ctx); err != nil {
				return err
			}
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
