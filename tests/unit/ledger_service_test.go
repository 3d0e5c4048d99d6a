package unit

import (
	"context"
	"errors"
	"testing"

	ledgerservice "copany/contexts/finance-core/ledger-service"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	httptransport "copany/contexts/finance-core/ledger-service/transport/http"
)

func TestLedgerRecordThenConfirmThenImmutable(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	recorded, err := module.Handler.RecordTransactionHandler(ctx, "cop-1", httptransport.RecordTransactionRequest{
		Type:       "income",
		Amount:     150,
		Currency:   "usd",
		OccurredAt: "2025-06-10T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if recorded.Status != "in_review" {
		t.Fatalf("new transactions start in review, got %s", recorded.Status)
	}
	if recorded.Currency != "USD" {
		t.Fatalf("currency must be normalized to upper case, got %s", recorded.Currency)
	}

	amended, err := module.Handler.AmendTransactionHandler(ctx, "cop-1", recorded.ID, httptransport.AmendTransactionRequest{
		Amount:      175,
		Description: "corrected invoice",
	})
	if err != nil {
		t.Fatalf("amend in review failed: %v", err)
	}
	if amended.Amount != 175 {
		t.Fatalf("expected amended amount 175, got %f", amended.Amount)
	}

	confirmed, err := module.Handler.ConfirmTransactionHandler(ctx, "cop-1", recorded.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != "confirmed" || confirmed.ConfirmedAt == "" {
		t.Fatalf("expected confirmed with timestamp, got %s / %q", confirmed.Status, confirmed.ConfirmedAt)
	}

	// Confirmation is idempotent.
	if _, err := module.Handler.ConfirmTransactionHandler(ctx, "cop-1", recorded.ID); err != nil {
		t.Fatalf("confirm replay failed: %v", err)
	}

	_, err = module.Handler.AmendTransactionHandler(ctx, "cop-1", recorded.ID, httptransport.AmendTransactionRequest{Amount: 999})
	if !errors.Is(err, domainerrors.ErrTransactionImmutable) {
		t.Fatalf("expected ErrTransactionImmutable after confirm, got %v", err)
	}
}

func TestLedgerRecordRejectsInvalidInput(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	cases := []httptransport.RecordTransactionRequest{
		{Type: "transfer", Amount: 10, Currency: "USD", OccurredAt: "2025-06-10T12:00:00Z"},
		{Type: "income", Amount: 0, Currency: "USD", OccurredAt: "2025-06-10T12:00:00Z"},
		{Type: "income", Amount: 10, Currency: "", OccurredAt: "2025-06-10T12:00:00Z"},
		{Type: "income", Amount: 10, Currency: "USD", OccurredAt: "not-a-timestamp"},
	}
	for i, req := range cases {
		if _, err := module.Handler.RecordTransactionHandler(ctx, "cop-1", req); !errors.Is(err, domainerrors.ErrInvalidLedgerInput) {
			t.Fatalf("case %d: expected ErrInvalidLedgerInput, got %v", i, err)
		}
	}
}

func TestLedgerListTransactionsByMonthAndStatus(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	june, err := module.Handler.RecordTransactionHandler(ctx, "cop-1", httptransport.RecordTransactionRequest{
		Type: "income", Amount: 100, Currency: "USD", OccurredAt: "2025-06-10T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("record june failed: %v", err)
	}
	if _, err := module.Handler.RecordTransactionHandler(ctx, "cop-1", httptransport.RecordTransactionRequest{
		Type: "expense", Amount: 40, Currency: "USD", OccurredAt: "2025-07-02T08:00:00Z",
	}); err != nil {
		t.Fatalf("record july failed: %v", err)
	}
	if _, err := module.Handler.ConfirmTransactionHandler(ctx, "cop-1", june.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	confirmedJune, err := module.Handler.ListTransactionsHandler(ctx, "cop-1", "2025-06", "confirmed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(confirmedJune.Transactions) != 1 || confirmedJune.Transactions[0].ID != june.ID {
		t.Fatalf("expected only confirmed June entry, got %+v", confirmedJune.Transactions)
	}

	all, err := module.Handler.ListTransactionsHandler(ctx, "cop-1", "", "")
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all.Transactions))
	}
}

func TestLedgerAppRevenueUpsertReplacesSameSource(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.UpsertAppRevenueHandler(ctx, "cop-1", httptransport.UpsertAppRevenueRequest{
		Month: "2025-06", Amount: 80, Currency: "USD", Source: "app-store",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if _, err := module.Handler.UpsertAppRevenueHandler(ctx, "cop-1", httptransport.UpsertAppRevenueRequest{
		Month: "2025-06", Amount: 120, Currency: "USD", Source: "app-store",
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	entries, err := module.Handler.ListAppRevenueHandler(ctx, "cop-1", "2025-06")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries.Entries) != 1 {
		t.Fatalf("same source must replace, got %d entries", len(entries.Entries))
	}
	if entries.Entries[0].Amount != 120 {
		t.Fatalf("expected replaced amount 120, got %f", entries.Entries[0].Amount)
	}
}

func TestLedgerAppRevenueRejectsBadMonthKey(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)

	_, err := module.Handler.UpsertAppRevenueHandler(context.Background(), "cop-1", httptransport.UpsertAppRevenueRequest{
		Month: "2025-6", Amount: 80, Currency: "USD", Source: "app-store",
	})
	if !errors.Is(err, domainerrors.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

func TestLedgerConvertedMonthlyIncomeUsesStaticFallback(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.UpsertAppRevenueHandler(ctx, "cop-1", httptransport.UpsertAppRevenueRequest{
		Month: "2025-06", Amount: 100, Currency: "USD", Source: "app-store",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	same, err := module.Queries.ConvertedMonthlyIncome(ctx, "cop-1", "2025-06", "USD")
	if err != nil {
		t.Fatalf("converted income failed: %v", err)
	}
	if same != 100 {
		t.Fatalf("same currency must not convert, got %f", same)
	}

	eur, err := module.Queries.ConvertedMonthlyIncome(ctx, "cop-1", "2025-06", "EUR")
	if err != nil {
		t.Fatalf("converted income failed: %v", err)
	}
	if eur <= 0 || eur == 100 {
		t.Fatalf("expected static table conversion to EUR, got %f", eur)
	}

	missing, err := module.Queries.ConvertedMonthlyIncome(ctx, "cop-1", "2030-01", "USD")
	if err != nil {
		t.Fatalf("converted income failed: %v", err)
	}
	if missing != 0 {
		t.Fatalf("months with no entries must sum to zero, got %f", missing)
	}
}

func TestLedgerRevenueMonthsAreDistinctAndSorted(t *testing.T) {
	module := ledgerservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	for _, req := range []httptransport.UpsertAppRevenueRequest{
		{Month: "2025-07", Amount: 10, Currency: "USD", Source: "app-store"},
		{Month: "2025-05", Amount: 10, Currency: "USD", Source: "app-store"},
		{Month: "2025-07", Amount: 10, Currency: "USD", Source: "play-store"},
	} {
		if _, err := module.Handler.UpsertAppRevenueHandler(ctx, "cop-1", req); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	months, err := module.Queries.ListRevenueMonths(ctx, "cop-1")
	if err != nil {
		t.Fatalf("list months failed: %v", err)
	}
	if len(months) != 2 || months[0] != "2025-05" || months[1] != "2025-07" {
		t.Fatalf("expected [2025-05 2025-07], got %v", months)
	}
}
