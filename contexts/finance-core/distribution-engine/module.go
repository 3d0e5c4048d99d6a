package distributionengine

import (
	"log/slog"

	httpadapter "copany/contexts/finance-core/distribution-engine/adapters/http"
	"copany/contexts/finance-core/distribution-engine/adapters/memory"
	"copany/contexts/finance-core/distribution-engine/application/commands"
	"copany/contexts/finance-core/distribution-engine/application/queries"
	"copany/contexts/finance-core/distribution-engine/domain/services"
	"copany/contexts/finance-core/distribution-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	// Commands is exposed for the historical recompute worker.
	Commands commands.UseCase
	Store    *memory.Store
}

type Dependencies struct {
	Copanies        ports.CopanySource
	Transactions    ports.TransactionSource
	Issues          ports.IssueSource
	Contributors    ports.ContributorSource
	AppRevenue      ports.AppRevenueSource
	Store           ports.DistributionStore
	Locker          ports.Locker
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	Outbox          ports.OutboxWriter
	ZeroScorePolicy services.ZeroScorePolicy
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	policy := deps.ZeroScorePolicy
	if policy == "" {
		policy = services.ZeroScoreOwnerTakesAll
	}
	commandUseCase := commands.UseCase{
		Copanies:        deps.Copanies,
		Transactions:    deps.Transactions,
		Issues:          deps.Issues,
		Contributors:    deps.Contributors,
		AppRevenue:      deps.AppRevenue,
		Store:           deps.Store,
		Locker:          deps.Locker,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		Outbox:          deps.Outbox,
		ZeroScorePolicy: policy,
		Logger:          deps.Logger,
	}
	queryUseCase := queries.UseCase{Store: deps.Store}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: commandUseCase,
	}
}

func NewInMemoryModule(seed memory.Seed, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Copanies:     store,
		Transactions: store,
		Issues:       store,
		Contributors: store,
		AppRevenue:   store,
		Store:        store,
		Locker:       store,
		Clock:        store,
		IDGen:        store,
		Outbox:       store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
