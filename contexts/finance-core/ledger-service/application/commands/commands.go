package commands

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	application "copany/contexts/finance-core/ledger-service/application"
	"copany/contexts/finance-core/ledger-service/domain/entities"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	"copany/contexts/finance-core/ledger-service/ports"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type RecordTransactionCommand struct {
	CopanyID    string
	Type        string
	Amount      float64
	Currency    string
	Description string
	OccurredAt  time.Time
}

type ConfirmTransactionCommand struct {
	CopanyID      string
	TransactionID string
}

type AmendTransactionCommand struct {
	CopanyID      string
	TransactionID string
	Amount        float64
	Description   string
}

type UpsertAppRevenueCommand struct {
	CopanyID string
	Month    string
	Amount   float64
	Currency string
	Source   string
}

type UseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// RecordTransaction creates a ledger entry in review. Confirmation is a
// separate explicit step; only confirmed entries feed distribution.
func (uc UseCase) RecordTransaction(ctx context.Context, cmd RecordTransactionCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)
	txType := entities.TransactionType(strings.ToLower(strings.TrimSpace(cmd.Type)))
	if txType != entities.TransactionTypeIncome && txType != entities.TransactionTypeExpense {
		return entities.Transaction{}, domainerrors.ErrInvalidLedgerInput
	}
	copanyID := strings.TrimSpace(cmd.CopanyID)
	currency := strings.ToUpper(strings.TrimSpace(cmd.Currency))
	if copanyID == "" || currency == "" || cmd.Amount <= 0 || cmd.OccurredAt.IsZero() {
		return entities.Transaction{}, domainerrors.ErrInvalidLedgerInput
	}

	transactionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Transaction{}, err
	}
	tx := entities.Transaction{
		ID:          transactionID,
		CopanyID:    copanyID,
		Type:        txType,
		Amount:      cmd.Amount,
		Currency:    currency,
		Status:      entities.TransactionStatusInReview,
		Description: strings.TrimSpace(cmd.Description),
		OccurredAt:  cmd.OccurredAt.UTC(),
		CreatedAt:   uc.now(),
	}
	if err := uc.Repository.CreateTransaction(ctx, tx); err != nil {
		logger.Error("ledger transaction create failed",
			"event", "ledger_transaction_create_failed",
			"module", "finance-core/ledger-service",
			"layer", "application",
			"copany_id", copanyID,
			"error", err.Error(),
		)
		return entities.Transaction{}, err
	}
	logger.Info("ledger transaction recorded",
		"event", "ledger_transaction_recorded",
		"module", "finance-core/ledger-service",
		"layer", "application",
		"copany_id", copanyID,
		"transaction_id", tx.ID,
		"type", string(txType),
		"amount", tx.Amount,
		"currency", currency,
	)
	return tx, nil
}

// ConfirmTransaction is idempotent; confirming an already-confirmed entry
// is a no-op so retried requests stay safe.
func (uc UseCase) ConfirmTransaction(ctx context.Context, cmd ConfirmTransactionCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)
	tx, err := uc.Repository.GetTransaction(ctx, strings.TrimSpace(cmd.CopanyID), strings.TrimSpace(cmd.TransactionID))
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.Status == entities.TransactionStatusConfirmed {
		return tx, nil
	}
	now := uc.now()
	tx.Status = entities.TransactionStatusConfirmed
	tx.ConfirmedAt = &now
	if err := uc.Repository.UpdateTransaction(ctx, tx); err != nil {
		logger.Error("ledger transaction confirm failed",
			"event", "ledger_transaction_confirm_failed",
			"module", "finance-core/ledger-service",
			"layer", "application",
			"copany_id", tx.CopanyID,
			"transaction_id", tx.ID,
			"error", err.Error(),
		)
		return entities.Transaction{}, err
	}
	logger.Info("ledger transaction confirmed",
		"event", "ledger_transaction_confirmed",
		"module", "finance-core/ledger-service",
		"layer", "application",
		"copany_id", tx.CopanyID,
		"transaction_id", tx.ID,
	)
	return tx, nil
}

// AmendTransaction edits an in-review entry. Confirmed entries are
// immutable for calculation purposes.
func (uc UseCase) AmendTransaction(ctx context.Context, cmd AmendTransactionCommand) (entities.Transaction, error) {
	tx, err := uc.Repository.GetTransaction(ctx, strings.TrimSpace(cmd.CopanyID), strings.TrimSpace(cmd.TransactionID))
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.Status == entities.TransactionStatusConfirmed {
		return entities.Transaction{}, domainerrors.ErrTransactionImmutable
	}
	if cmd.Amount <= 0 {
		return entities.Transaction{}, domainerrors.ErrInvalidLedgerInput
	}
	tx.Amount = cmd.Amount
	tx.Description = strings.TrimSpace(cmd.Description)
	if err := uc.Repository.UpdateTransaction(ctx, tx); err != nil {
		return entities.Transaction{}, err
	}
	return tx, nil
}

// UpsertAppRevenue stores one external revenue figure per copany, month,
// and source, replacing any previous report for the same key.
func (uc UseCase) UpsertAppRevenue(ctx context.Context, cmd UpsertAppRevenueCommand) (entities.AppRevenueEntry, error) {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	month := strings.TrimSpace(cmd.Month)
	currency := strings.ToUpper(strings.TrimSpace(cmd.Currency))
	source := strings.TrimSpace(cmd.Source)
	if copanyID == "" || currency == "" || source == "" || cmd.Amount < 0 {
		return entities.AppRevenueEntry{}, domainerrors.ErrInvalidLedgerInput
	}
	if !monthKeyPattern.MatchString(month) {
		return entities.AppRevenueEntry{}, domainerrors.ErrInvalidMonthKey
	}

	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AppRevenueEntry{}, err
	}
	now := uc.now()
	entry := entities.AppRevenueEntry{
		ID:        entryID,
		CopanyID:  copanyID,
		Month:     month,
		Amount:    cmd.Amount,
		Currency:  currency,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Repository.UpsertAppRevenue(ctx, entry); err != nil {
		logger.Error("ledger app revenue upsert failed",
			"event", "ledger_app_revenue_upsert_failed",
			"module", "finance-core/ledger-service",
			"layer", "application",
			"copany_id", copanyID,
			"month", month,
			"source", source,
			"error", err.Error(),
		)
		return entities.AppRevenueEntry{}, err
	}
	logger.Info("ledger app revenue upserted",
		"event", "ledger_app_revenue_upserted",
		"module", "finance-core/ledger-service",
		"layer", "application",
		"copany_id", copanyID,
		"month", month,
		"source", source,
		"amount", cmd.Amount,
		"currency", currency,
	)
	return entry, nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
