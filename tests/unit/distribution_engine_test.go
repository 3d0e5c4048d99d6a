package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	distributionengine "copany/contexts/finance-core/distribution-engine"
	"copany/contexts/finance-core/distribution-engine/adapters/memory"
	"copany/contexts/finance-core/distribution-engine/domain/entities"
	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
)

func juneSeed() memory.Seed {
	occurred := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	done := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	return memory.Seed{
		Owners: map[string]string{"cop-1": "owner"},
		Transactions: []entities.Transaction{
			{
				ID: "tx-1", CopanyID: "cop-1",
				Type: entities.TransactionTypeIncome, Amount: 1000, Currency: "USD",
				Status: entities.TransactionStatusConfirmed, OccurredAt: occurred,
			},
		},
		Issues: []entities.Issue{
			{ID: "iss-1", CopanyID: "cop-1", Assignee: "owner", Level: entities.IssueLevelA, State: entities.IssueStateDone, ClosedAt: &done},
			{ID: "iss-2", CopanyID: "cop-1", Assignee: "bob", Level: entities.IssueLevelB, State: entities.IssueStateDone, ClosedAt: &done},
		},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "owner"},
			{CopanyID: "cop-1", UserID: "bob"},
		},
	}
}

func TestDistributionRecomputeCurrentMonth(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	resp, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1")
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if resp.Month != "2025-06" {
		t.Fatalf("expected month 2025-06, got %s", resp.Month)
	}
	if resp.NetIncome != 1000 {
		t.Fatalf("expected net income 1000, got %f", resp.NetIncome)
	}
	if resp.RecordCount != 2 {
		t.Fatalf("expected 2 records, got %d", resp.RecordCount)
	}

	list, err := module.Handler.ListRecordsHandler(ctx, "cop-1", "2025-06")
	if err != nil {
		t.Fatalf("list records failed: %v", err)
	}
	byUser := make(map[string]float64)
	for _, record := range list.Records {
		byUser[record.ToUser] = record.Amount
	}
	if byUser["owner"] != 750 || byUser["bob"] != 250 {
		t.Fatalf("expected 750/250 split, got %f/%f", byUser["owner"], byUser["bob"])
	}
}

func TestDistributionRecomputeRejectsNonOwner(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

	_, err := module.Handler.RecomputeHandler(context.Background(), "bob", "cop-1")
	if !errors.Is(err, domainerrors.ErrNotCopanyOwner) {
		t.Fatalf("expected ErrNotCopanyOwner, got %v", err)
	}
}

func TestDistributionRecomputeUnknownCopany(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)

	_, err := module.Handler.RecomputeHandler(context.Background(), "owner", "cop-missing")
	if !errors.Is(err, domainerrors.ErrCopanyNotFound) {
		t.Fatalf("expected ErrCopanyNotFound, got %v", err)
	}
}

func TestDistributionRecomputeIsIdempotentPerMonth(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}

	list, err := module.Handler.ListRecordsHandler(ctx, "cop-1", "2025-06")
	if err != nil {
		t.Fatalf("list records failed: %v", err)
	}
	if len(list.Records) != 2 {
		t.Fatalf("recompute must replace, not accumulate: got %d records", len(list.Records))
	}
}

func TestDistributionConfirmRecordRecipientOnly(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	list, err := module.Handler.ListRecordsHandler(ctx, "cop-1", "2025-06")
	if err != nil {
		t.Fatalf("list records failed: %v", err)
	}

	var bobRecordID, ownerRecordID string
	for _, record := range list.Records {
		switch record.ToUser {
		case "bob":
			bobRecordID = record.ID
		case "owner":
			ownerRecordID = record.ID
		}
	}

	if err := module.Handler.ConfirmRecordHandler(ctx, "owner", "cop-1", bobRecordID); !errors.Is(err, domainerrors.ErrNotRecordRecipient) {
		t.Fatalf("expected ErrNotRecordRecipient for non-recipient, got %v", err)
	}
	if err := module.Handler.ConfirmRecordHandler(ctx, "bob", "cop-1", bobRecordID); err != nil {
		t.Fatalf("recipient confirm failed: %v", err)
	}
	if err := module.Handler.ConfirmRecordHandler(ctx, "bob", "cop-1", bobRecordID); !errors.Is(err, domainerrors.ErrRecordAlreadyConfirmed) {
		t.Fatalf("expected ErrRecordAlreadyConfirmed on replay, got %v", err)
	}
	// The owner's own record was auto-confirmed at computation time.
	if err := module.Handler.ConfirmRecordHandler(ctx, "owner", "cop-1", ownerRecordID); !errors.Is(err, domainerrors.ErrRecordAlreadyConfirmed) {
		t.Fatalf("expected auto-confirmed owner record, got %v", err)
	}
}

func TestDistributionSummaryCountsConfirmed(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	summary, err := module.Handler.SummaryHandler(ctx, "cop-1", "2025-06")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalDistributed != 1000 {
		t.Fatalf("expected total 1000, got %f", summary.TotalDistributed)
	}
	if summary.RecordCount != 2 || summary.ConfirmedCount != 1 {
		t.Fatalf("expected 2 records with 1 confirmed, got %d/%d", summary.RecordCount, summary.ConfirmedCount)
	}
	if summary.Currency != "USD" {
		t.Fatalf("expected USD, got %s", summary.Currency)
	}
}

func TestDistributionListRecordsRejectsBadMonthKey(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)

	_, err := module.Handler.ListRecordsHandler(context.Background(), "cop-1", "2025-6")
	if !errors.Is(err, domainerrors.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

func TestDistributionRecomputeBlockedWhileLocked(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	release, err := module.Store.Acquire(ctx, "cop-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); !errors.Is(err, domainerrors.ErrRecomputeLocked) {
		t.Fatalf("expected ErrRecomputeLocked while held, got %v", err)
	}

	release()
	if _, err := module.Handler.RecomputeHandler(ctx, "owner", "cop-1"); err != nil {
		t.Fatalf("recompute after release failed: %v", err)
	}
}

func TestDistributionRecomputeAppendsOutboxEvent(t *testing.T) {
	module := distributionengine.NewInMemoryModule(juneSeed(), nil)
	module.Store.SetNow(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

	if _, err := module.Handler.RecomputeHandler(context.Background(), "owner", "cop-1"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if module.Store.PendingOutboxCount() != 1 {
		t.Fatalf("expected one pending outbox event, got %d", module.Store.PendingOutboxCount())
	}
}
