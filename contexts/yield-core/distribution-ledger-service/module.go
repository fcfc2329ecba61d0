package distributionledger

import (
	"log/slog"

	httpadapter "yieldbook/contexts/yield-core/distribution-ledger-service/adapters/http"
	"yieldbook/contexts/yield-core/distribution-ledger-service/adapters/memory"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/commands"
	"yieldbook/contexts/yield-core/distribution-ledger-service/application/queries"
	"yieldbook/contexts/yield-core/distribution-ledger-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Directory  ports.AssetDirectory
	Policy     ports.PolicySource
	Oracle     ports.BalanceOracle
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository: deps.Repository,
		Directory:  deps.Directory,
		Policy:     deps.Policy,
		Oracle:     deps.Oracle,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Policy:     deps.Policy,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the ledger against its own store acting as
// repository, directory, oracle, and policy source. Used by tests and the
// storage-free runtime.
func NewInMemoryModule(adminID string, logger *slog.Logger) Module {
	store := memory.NewStore(adminID)
	module := NewModule(Dependencies{
		Repository: store,
		Directory:  store,
		Policy:     store,
		Oracle:     store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
