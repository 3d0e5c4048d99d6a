package ports

import (
	"context"
	"time"

	"copany/contexts/finance-core/ledger-service/domain/entities"
)

type TransactionFilter struct {
	Month  string
	Status entities.TransactionStatus
}

type Repository interface {
	CreateTransaction(ctx context.Context, tx entities.Transaction) error
	GetTransaction(ctx context.Context, copanyID, transactionID string) (entities.Transaction, error)
	UpdateTransaction(ctx context.Context, tx entities.Transaction) error
	ListTransactions(ctx context.Context, copanyID string, filter TransactionFilter) ([]entities.Transaction, error)
	UpsertAppRevenue(ctx context.Context, entry entities.AppRevenueEntry) error
	ListAppRevenue(ctx context.Context, copanyID, month string) ([]entities.AppRevenueEntry, error)
}

// RateSource answers how many units of `to` one unit of `from` buys.
// Implementations may fail on network errors; callers fall back to the
// static table rather than failing the computation.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
