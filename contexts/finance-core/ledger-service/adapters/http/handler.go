package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "copany/contexts/finance-core/ledger-service/application"
	"copany/contexts/finance-core/ledger-service/application/commands"
	"copany/contexts/finance-core/ledger-service/application/queries"
	"copany/contexts/finance-core/ledger-service/domain/entities"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	"copany/contexts/finance-core/ledger-service/ports"
	httptransport "copany/contexts/finance-core/ledger-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) RecordTransactionHandler(ctx context.Context, copanyID string, req httptransport.RecordTransactionRequest) (httptransport.TransactionDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	occurredAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.OccurredAt))
	if err != nil {
		return httptransport.TransactionDTO{}, domainerrors.ErrInvalidLedgerInput
	}
	tx, err := h.Commands.RecordTransaction(ctx, commands.RecordTransactionCommand{
		CopanyID:    copanyID,
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		logger.Warn("ledger http record transaction failed",
			"event", "ledger_http_record_transaction_failed",
			"module", "finance-core/ledger-service",
			"layer", "adapter",
			"copany_id", strings.TrimSpace(copanyID),
			"error", err.Error(),
		)
		return httptransport.TransactionDTO{}, err
	}
	return transactionDTO(tx), nil
}

func (h Handler) ConfirmTransactionHandler(ctx context.Context, copanyID, transactionID string) (httptransport.TransactionDTO, error) {
	tx, err := h.Commands.ConfirmTransaction(ctx, commands.ConfirmTransactionCommand{
		CopanyID:      copanyID,
		TransactionID: transactionID,
	})
	if err != nil {
		return httptransport.TransactionDTO{}, err
	}
	return transactionDTO(tx), nil
}

func (h Handler) AmendTransactionHandler(ctx context.Context, copanyID, transactionID string, req httptransport.AmendTransactionRequest) (httptransport.TransactionDTO, error) {
	tx, err := h.Commands.AmendTransaction(ctx, commands.AmendTransactionCommand{
		CopanyID:      copanyID,
		TransactionID: transactionID,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		return httptransport.TransactionDTO{}, err
	}
	return transactionDTO(tx), nil
}

func (h Handler) ListTransactionsHandler(ctx context.Context, copanyID, month, status string) (httptransport.ListTransactionsResponse, error) {
	transactions, err := h.Queries.ListTransactions(ctx, copanyID, ports.TransactionFilter{
		Month:  strings.TrimSpace(month),
		Status: entities.TransactionStatus(strings.TrimSpace(status)),
	})
	if err != nil {
		return httptransport.ListTransactionsResponse{}, err
	}
	out := httptransport.ListTransactionsResponse{Transactions: make([]httptransport.TransactionDTO, 0, len(transactions))}
	for _, tx := range transactions {
		out.Transactions = append(out.Transactions, transactionDTO(tx))
	}
	return out, nil
}

func (h Handler) UpsertAppRevenueHandler(ctx context.Context, copanyID string, req httptransport.UpsertAppRevenueRequest) (httptransport.AppRevenueDTO, error) {
	entry, err := h.Commands.UpsertAppRevenue(ctx, commands.UpsertAppRevenueCommand{
		CopanyID: copanyID,
		Month:    req.Month,
		Amount:   req.Amount,
		Currency: req.Currency,
		Source:   req.Source,
	})
	if err != nil {
		return httptransport.AppRevenueDTO{}, err
	}
	return appRevenueDTO(entry), nil
}

func (h Handler) ListAppRevenueHandler(ctx context.Context, copanyID, month string) (httptransport.ListAppRevenueResponse, error) {
	entries, err := h.Queries.ListAppRevenue(ctx, copanyID, month)
	if err != nil {
		return httptransport.ListAppRevenueResponse{}, err
	}
	out := httptransport.ListAppRevenueResponse{Entries: make([]httptransport.AppRevenueDTO, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, appRevenueDTO(entry))
	}
	return out, nil
}

func transactionDTO(tx entities.Transaction) httptransport.TransactionDTO {
	dto := httptransport.TransactionDTO{
		ID:          tx.ID,
		CopanyID:    tx.CopanyID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Status:      string(tx.Status),
		Description: tx.Description,
		OccurredAt:  tx.OccurredAt.UTC().Format(time.RFC3339),
	}
	if tx.ConfirmedAt != nil {
		dto.ConfirmedAt = tx.ConfirmedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func appRevenueDTO(entry entities.AppRevenueEntry) httptransport.AppRevenueDTO {
	return httptransport.AppRevenueDTO{
		ID:       entry.ID,
		CopanyID: entry.CopanyID,
		Month:    entry.Month,
		Amount:   entry.Amount,
		Currency: entry.Currency,
		Source:   entry.Source,
	}
}
