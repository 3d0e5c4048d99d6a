package queries

import (
	"context"
	"regexp"
	"strings"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
	"copany/contexts/finance-core/distribution-engine/ports"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type UseCase struct {
	Store ports.DistributionStore
}

type MonthSummary struct {
	Month            string
	Currency         string
	TotalDistributed float64
	RecordCount      int
	ConfirmedCount   int
}

// ListRecords returns a copany's distribution records, optionally limited to
// one month. An empty month means all history.
func (uc UseCase) ListRecords(ctx context.Context, copanyID, month string) ([]entities.DistributionRecord, error) {
	copanyID = strings.TrimSpace(copanyID)
	month = strings.TrimSpace(month)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidDistributionInput
	}
	if month != "" && !monthKeyPattern.MatchString(month) {
		return nil, domainerrors.ErrInvalidMonthKey
	}
	return uc.Store.ListRecords(ctx, copanyID, month)
}

func (uc UseCase) Summary(ctx context.Context, copanyID, month string) (MonthSummary, error) {
	if !monthKeyPattern.MatchString(strings.TrimSpace(month)) {
		return MonthSummary{}, domainerrors.ErrInvalidMonthKey
	}
	records, err := uc.ListRecords(ctx, copanyID, month)
	if err != nil {
		return MonthSummary{}, err
	}
	summary := MonthSummary{Month: strings.TrimSpace(month), RecordCount: len(records)}
	for _, record := range records {
		summary.TotalDistributed += record.Amount
		if summary.Currency == "" {
			summary.Currency = record.Currency
		}
		if record.Status == entities.DistributionStatusConfirmed {
			summary.ConfirmedCount++
		}
	}
	return summary, nil
}
