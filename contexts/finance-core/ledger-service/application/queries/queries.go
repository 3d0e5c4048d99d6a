package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "copany/contexts/finance-core/ledger-service/application"
	"copany/contexts/finance-core/ledger-service/domain/entities"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	"copany/contexts/finance-core/ledger-service/ports"
)

type UseCase struct {
	Repository ports.Repository
	// Rates is the live source; Fallback is consulted when it fails.
	Rates    ports.RateSource
	Fallback ports.RateSource
	Logger   *slog.Logger
}

func (uc UseCase) ListTransactions(ctx context.Context, copanyID string, filter ports.TransactionFilter) ([]entities.Transaction, error) {
	copanyID = strings.TrimSpace(copanyID)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.ListTransactions(ctx, copanyID, filter)
}

func (uc UseCase) ListAppRevenue(ctx context.Context, copanyID, month string) ([]entities.AppRevenueEntry, error) {
	copanyID = strings.TrimSpace(copanyID)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidLedgerInput
	}
	return uc.Repository.ListAppRevenue(ctx, copanyID, strings.TrimSpace(month))
}

// ConvertedMonthlyIncome sums a copany's external revenue for one month in
// the target currency. Rate lookups degrade to the static fallback table on
// failure; conversion problems reduce precision, never abort the caller.
func (uc UseCase) ConvertedMonthlyIncome(ctx context.Context, copanyID, month, currency string) (float64, error) {
	entries, err := uc.Repository.ListAppRevenue(ctx, strings.TrimSpace(copanyID), strings.TrimSpace(month))
	if err != nil {
		return 0, err
	}
	logger := application.ResolveLogger(uc.Logger)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	total := 0.0
	for _, entry := range entries {
		rate := 1.0
		if entry.Currency != currency {
			rate = uc.resolveRate(ctx, logger, entry.Currency, currency)
		}
		total += entry.Amount * rate
	}
	return total, nil
}

func (uc UseCase) ListRevenueMonths(ctx context.Context, copanyID string) ([]string, error) {
	entries, err := uc.Repository.ListAppRevenue(ctx, strings.TrimSpace(copanyID), "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		seen[entry.Month] = struct{}{}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months, nil
}

func (uc UseCase) resolveRate(ctx context.Context, logger *slog.Logger, from, to string) float64 {
	if uc.Rates != nil {
		rate, err := uc.Rates.Rate(ctx, from, to)
		if err == nil && rate > 0 {
			return rate
		}
		if err != nil {
			logger.Warn("ledger live rate lookup failed, using static table",
				"event", "ledger_rate_lookup_degraded",
				"module", "finance-core/ledger-service",
				"layer", "application",
				"from", from,
				"to", to,
				"error", err.Error(),
			)
		}
	}
	if uc.Fallback == nil {
		return 1
	}
	rate, err := uc.Fallback.Rate(ctx, from, to)
	if err != nil || rate <= 0 {
		return 1
	}
	return rate
}
