package ports

import (
	"context"
	"encoding/json"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
)

// CopanySource resolves copany ownership for the authorization check on the
// interactive recompute path.
type CopanySource interface {
	CopanyOwner(ctx context.Context, copanyID string) (string, error)
	ListCopanyIDs(ctx context.Context) ([]string, error)
}

type TransactionSource interface {
	// ListConfirmedTransactions returns confirmed ledger entries for the
	// copany; a zero period means all history.
	ListConfirmedTransactions(ctx context.Context, copanyID string, period entities.Period) ([]entities.Transaction, error)
	// ListAllTransactions returns the copany's full ledger regardless of
	// status. Month enumeration must see in-review entries too, so a month
	// with nothing confirmed yet still gets its zero-amount records.
	ListAllTransactions(ctx context.Context, copanyID string) ([]entities.Transaction, error)
}

type IssueSource interface {
	ListCompletedIssues(ctx context.Context, copanyID string) ([]entities.Issue, error)
}

type ContributorSource interface {
	ListContributors(ctx context.Context, copanyID string) ([]entities.Contributor, error)
}

// AppRevenueSource exposes externally reported income (e.g. app-store
// payouts) already converted to the requested currency.
type AppRevenueSource interface {
	ConvertedMonthlyIncome(ctx context.Context, copanyID, month, currency string) (float64, error)
	ListRevenueMonths(ctx context.Context, copanyID string) ([]string, error)
}

type DistributionStore interface {
	ListRecords(ctx context.Context, copanyID, month string) ([]entities.DistributionRecord, error)
	GetRecord(ctx context.Context, copanyID, recordID string) (entities.DistributionRecord, error)
	// ReplaceForMonth deletes the month's records and inserts the new set
	// inside a single transaction, so a failure cannot leave the month
	// empty.
	ReplaceForMonth(ctx context.Context, copanyID, month string, records []entities.DistributionRecord) error
	ConfirmRecord(ctx context.Context, copanyID, recordID string, confirmedAt time.Time) error
}

// Locker serializes recomputation per copany. The skip policy is a
// read-then-write, so concurrent recompute runs must not interleave.
type Locker interface {
	Acquire(ctx context.Context, copanyID string) (release func(), err error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	PartitionKey  string          `json:"partition_key"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxReader is consumed by the relay worker.
type OutboxReader interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]EventEnvelope, error)
	MarkOutboxPublished(ctx context.Context, eventID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
