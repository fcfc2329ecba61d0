package assetregistry

import (
	"log/slog"

	httpadapter "yieldbook/contexts/yield-core/asset-registry-service/adapters/http"
	"yieldbook/contexts/yield-core/asset-registry-service/adapters/memory"
	"yieldbook/contexts/yield-core/asset-registry-service/application"
	"yieldbook/contexts/yield-core/asset-registry-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(adminID string, logger *slog.Logger) Module {
	store := memory.NewStore(adminID)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
