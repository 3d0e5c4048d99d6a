package ledgerservice

import (
	"log/slog"

	httpadapter "copany/contexts/finance-core/ledger-service/adapters/http"
	"copany/contexts/finance-core/ledger-service/adapters/memory"
	"copany/contexts/finance-core/ledger-service/adapters/rates"
	"copany/contexts/finance-core/ledger-service/application/commands"
	"copany/contexts/finance-core/ledger-service/application/queries"
	"copany/contexts/finance-core/ledger-service/domain/entities"
	"copany/contexts/finance-core/ledger-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	// Queries satisfies the distribution engine's AppRevenueSource port.
	Queries queries.UseCase
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Rates      ports.RateSource
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Repository: deps.Repository,
		Rates:      deps.Rates,
		Fallback:   rates.StaticSource{},
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Queries: queryUseCase,
	}
}

func NewInMemoryModule(seed []entities.Transaction, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
