package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	assetregistry "yieldbook/contexts/yield-core/asset-registry-service"
	registrypg "yieldbook/contexts/yield-core/asset-registry-service/adapters/postgres"
	registryapp "yieldbook/contexts/yield-core/asset-registry-service/application"
	registryentities "yieldbook/contexts/yield-core/asset-registry-service/domain/entities"
	registryerrors "yieldbook/contexts/yield-core/asset-registry-service/domain/errors"
	distributionledger "yieldbook/contexts/yield-core/distribution-ledger-service"
	ledgerpg "yieldbook/contexts/yield-core/distribution-ledger-service/adapters/postgres"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/workers"
	ledgererrors "yieldbook/contexts/yield-core/distribution-ledger-service/domain/errors"
	ledgerports "yieldbook/contexts/yield-core/distribution-ledger-service/ports"
	"yieldbook/internal/platform/config"
	"yieldbook/internal/platform/db"
	"yieldbook/internal/platform/httpserver"
	"yieldbook/internal/platform/messaging"
)

// APIApp is the composition root for the HTTP process.
type APIApp struct {
	Config   config.Config
	Logger   *slog.Logger
	Postgres *db.Postgres
	Server   *httpserver.Server
	Registry assetregistry.Module
	Ledger   distributionledger.Module
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.ServiceName, "api")

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	registryRepo := registrypg.NewRepository(pg.DB, logger)
	registryModule := assetregistry.NewModule(assetregistry.Dependencies{
		Repository: registryRepo,
		Clock:      registrypg.SystemClock{},
		Logger:     logger,
	})

	if err := seedPolicy(context.Background(), registryModule.Service, cfg); err != nil {
		_ = pg.Close()
		return nil, err
	}

	ledgerRepo := ledgerpg.NewRepository(pg.DB, logger)
	ledgerModule := distributionledger.NewModule(distributionledger.Dependencies{
		Repository: ledgerRepo,
		Directory:  registryDirectory{service: registryModule.Service},
		Policy:     registryPolicySource{service: registryModule.Service},
		Oracle:     ledgerpg.NewBalanceOracle(pg.DB, logger),
		Outbox:     ledgerRepo,
		Clock:      ledgerpg.SystemClock{},
		IDGen:      ledgerpg.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(registryModule, ledgerModule, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		Config:   cfg,
		Logger:   logger,
		Postgres: pg,
		Server:   server,
		Registry: registryModule,
		Ledger:   ledgerModule,
	}, nil
}

func (a *APIApp) Run() error {
	return a.Server.Start()
}

func (a *APIApp) Close() error {
	return a.Postgres.Close()
}

// WorkerApp runs the settlement relay against the same outbox tables.
type WorkerApp struct {
	Config   config.Config
	Logger   *slog.Logger
	Postgres *db.Postgres
	Relay    workers.SettlementRelay
	Interval time.Duration
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.ServiceName, "worker")

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("connect message bus: %w", err)
	}

	relay := workers.SettlementRelay{
		Outbox:    ledgerpg.NewRepository(pg.DB, logger),
		Publisher: bus,
		Clock:     ledgerpg.SystemClock{},
		Logger:    logger,
	}

	return &WorkerApp{
		Config:   cfg,
		Logger:   logger,
		Postgres: pg,
		Relay:    relay,
		Interval: 2 * time.Second,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.Config.EnableSettlementRelay {
		w.Logger.Info("settlement relay disabled",
			"event", "settlement_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Relay.RunOnce(ctx); err != nil {
				w.Logger.Error("settlement relay cycle failed",
					"event", "settlement_relay_cycle_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
	}
}

func (w *WorkerApp) Close() error {
	return w.Postgres.Close()
}

// seedPolicy writes the distribution policy row when one does not exist yet.
// ADMIN_PRINCIPAL is required on first boot; afterwards the stored row wins.
func seedPolicy(ctx context.Context, service registryapp.Service, cfg config.Config) error {
	if _, err := service.Policy(ctx); err == nil {
		return nil
	}
	if cfg.AdminPrincipal == "" {
		return errors.New("ADMIN_PRINCIPAL is required to seed the distribution policy")
	}
	return service.Repo.SavePolicy(ctx, registryentities.DistributionPolicy{
		AdminID:           cfg.AdminPrincipal,
		CostCeilingUnits:  cfg.CostCeilingUnits,
		PerOwnerCostUnits: cfg.PerOwnerCostUnits,
		UpdatedAt:         time.Now().UTC(),
	})
}

// registryDirectory exposes the asset registry to the ledger behind its
// AssetDirectory port, translating registry sentinels into ledger sentinels.
type registryDirectory struct {
	service registryapp.Service
}

func (d registryDirectory) AssetInfo(ctx context.Context, assetID string) (ledgerports.AssetInfo, error) {
	asset, err := d.service.GetAsset(ctx, assetID)
	if err != nil {
		if errors.Is(err, registryerrors.ErrAssetNotFound) {
			return ledgerports.AssetInfo{}, ledgererrors.ErrAssetNotFound
		}
		return ledgerports.AssetInfo{}, err
	}
	return ledgerports.AssetInfo{
		ID:          asset.ID,
		TotalShares: asset.TotalShares,
		Active:      asset.Active,
	}, nil
}

func (d registryDirectory) RecordDistribution(ctx context.Context, assetID string, at time.Time) error {
	return d.service.TouchDistribution(ctx, assetID, at)
}

type registryPolicySource struct {
	service registryapp.Service
}

func (p registryPolicySource) Policy(ctx context.Context) (ledgerports.DistributionPolicy, error) {
	policy, err := p.service.Policy(ctx)
	if err != nil {
		return ledgerports.DistributionPolicy{}, err
	}
	return ledgerports.DistributionPolicy{
		AdminID:           policy.AdminID,
		CostCeilingUnits:  policy.CostCeilingUnits,
		PerOwnerCostUnits: policy.PerOwnerCostUnits,
	}, nil
}

var _ ledgerports.AssetDirectory = registryDirectory{}
var _ ledgerports.PolicySource = registryPolicySource{}

func newLogger(service string, process string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		"service", service,
		"process", process,
	)
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
