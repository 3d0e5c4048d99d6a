package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "copany/contexts/finance-core/distribution-engine/application"
	"copany/contexts/finance-core/distribution-engine/domain/entities"
	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
	"copany/contexts/finance-core/distribution-engine/domain/services"
	"copany/contexts/finance-core/distribution-engine/ports"
)

type RecomputeCurrentMonthCommand struct {
	CopanyID    string
	RequestedBy string
}

type ConfirmRecordCommand struct {
	CopanyID    string
	RecordID    string
	RequestedBy string
}

type RecomputeHistoryCommand struct {
	CopanyID string
}

// RecomputeResult describes one (re)computed month.
type RecomputeResult struct {
	Month       string
	NetIncome   float64
	Currency    string
	RecordCount int
}

// MonthResult is the per-month outcome of the bulk history path. A month's
// failure is reported here instead of halting the remaining months.
type MonthResult struct {
	Month       string
	Skipped     bool
	RecordCount int
	NetIncome   float64
	Err         error
}

type UseCase struct {
	Copanies     ports.CopanySource
	Transactions ports.TransactionSource
	Issues       ports.IssueSource
	Contributors ports.ContributorSource
	AppRevenue   ports.AppRevenueSource
	Store        ports.DistributionStore
	Locker       ports.Locker
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	// ZeroScorePolicy applies to every recompute path; the historical
	// implementations disagreed and the behavior is now a single module
	// level setting.
	ZeroScorePolicy services.ZeroScorePolicy
	Logger          *slog.Logger
}

// RecomputeCurrentMonth rebuilds the records for the month containing the
// injected clock's now. Owner-only, and always delete-and-replace: the skip
// policy protects only the bulk history path.
func (uc UseCase) RecomputeCurrentMonth(ctx context.Context, cmd RecomputeCurrentMonthCommand) (RecomputeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	requestedBy := strings.TrimSpace(cmd.RequestedBy)
	if copanyID == "" || requestedBy == "" {
		return RecomputeResult{}, domainerrors.ErrInvalidDistributionInput
	}

	owner, err := uc.Copanies.CopanyOwner(ctx, copanyID)
	if err != nil {
		logger.Warn("distribution recompute owner lookup failed",
			"event", "distribution_recompute_owner_lookup_failed",
			"module", "finance-core/distribution-engine",
			"layer", "application",
			"copany_id", copanyID,
			"error", err.Error(),
		)
		return RecomputeResult{}, err
	}
	if owner != requestedBy {
		logger.Warn("distribution recompute rejected for non-owner",
			"event", "distribution_recompute_unauthorized",
			"module", "finance-core/distribution-engine",
			"layer", "application",
			"copany_id", copanyID,
			"requested_by", requestedBy,
		)
		return RecomputeResult{}, domainerrors.ErrNotCopanyOwner
	}

	release, err := uc.Locker.Acquire(ctx, copanyID)
	if err != nil {
		return RecomputeResult{}, err
	}
	defer release()

	period := entities.PeriodOf(uc.now())
	result, err := uc.recomputePeriod(ctx, copanyID, owner, period, false)
	if err != nil {
		return RecomputeResult{}, err
	}

	logger.Info("distribution month recomputed",
		"event", "distribution_month_recomputed",
		"module", "finance-core/distribution-engine",
		"layer", "application",
		"copany_id", copanyID,
		"month", result.Month,
		"net_income", result.NetIncome,
		"record_count", result.RecordCount,
	)
	return result, nil
}

// RecomputeHistory walks every month with financial activity for a copany,
// honoring the skip policy so settled months stay untouched.
func (uc UseCase) RecomputeHistory(ctx context.Context, cmd RecomputeHistoryCommand) ([]MonthResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidDistributionInput
	}

	owner, err := uc.Copanies.CopanyOwner(ctx, copanyID)
	if err != nil {
		return nil, err
	}

	release, err := uc.Locker.Acquire(ctx, copanyID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Enumerate from the full ledger, not just confirmed entries: a month
	// whose transactions are all still in review gets its records too.
	transactions, err := uc.Transactions.ListAllTransactions(ctx, copanyID)
	if err != nil {
		return nil, err
	}
	revenueMonths, err := uc.AppRevenue.ListRevenueMonths(ctx, copanyID)
	if err != nil {
		return nil, err
	}

	months := services.EnumerateMonths(transactions, revenueMonths)
	results := make([]MonthResult, 0, len(months))
	for _, month := range months {
		period, err := entities.ParseMonth(month)
		if err != nil {
			results = append(results, MonthResult{Month: month, Err: err})
			continue
		}

		existing, err := uc.Store.ListRecords(ctx, copanyID, month)
		if err != nil {
			results = append(results, MonthResult{Month: month, Err: err})
			continue
		}
		if services.ShouldSkipReplace(existing) {
			logger.Debug("distribution month skipped by settled records",
				"event", "distribution_history_month_skipped",
				"module", "finance-core/distribution-engine",
				"layer", "application",
				"copany_id", copanyID,
				"month", month,
			)
			results = append(results, MonthResult{Month: month, Skipped: true, RecordCount: len(existing)})
			continue
		}

		computed, err := uc.recomputePeriod(ctx, copanyID, owner, period, true)
		if err != nil {
			logger.Error("distribution history month failed",
				"event", "distribution_history_month_failed",
				"module", "finance-core/distribution-engine",
				"layer", "application",
				"copany_id", copanyID,
				"month", month,
				"error", err.Error(),
			)
			results = append(results, MonthResult{Month: month, Err: err})
			continue
		}
		results = append(results, MonthResult{
			Month:       month,
			RecordCount: computed.RecordCount,
			NetIncome:   computed.NetIncome,
		})
	}

	logger.Info("distribution history recomputed",
		"event", "distribution_history_recomputed",
		"module", "finance-core/distribution-engine",
		"layer", "application",
		"copany_id", copanyID,
		"month_count", len(months),
	)
	return results, nil
}

// ConfirmRecord lets the record's recipient acknowledge their share. The
// owner's own record is auto-confirmed at computation time.
func (uc UseCase) ConfirmRecord(ctx context.Context, cmd ConfirmRecordCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	recordID := strings.TrimSpace(cmd.RecordID)
	requestedBy := strings.TrimSpace(cmd.RequestedBy)
	if copanyID == "" || recordID == "" || requestedBy == "" {
		return domainerrors.ErrInvalidDistributionInput
	}

	record, err := uc.Store.GetRecord(ctx, copanyID, recordID)
	if err != nil {
		return err
	}
	if record.ToUser != requestedBy {
		logger.Warn("distribution confirm rejected for non-recipient",
			"event", "distribution_confirm_unauthorized",
			"module", "finance-core/distribution-engine",
			"layer", "application",
			"copany_id", copanyID,
			"record_id", recordID,
			"requested_by", requestedBy,
		)
		return domainerrors.ErrNotRecordRecipient
	}
	if record.Status == entities.DistributionStatusConfirmed {
		return domainerrors.ErrRecordAlreadyConfirmed
	}
	if err := uc.Store.ConfirmRecord(ctx, copanyID, recordID, uc.now()); err != nil {
		return err
	}
	logger.Info("distribution record confirmed",
		"event", "distribution_record_confirmed",
		"module", "finance-core/distribution-engine",
		"layer", "application",
		"copany_id", copanyID,
		"record_id", recordID,
		"to_user", record.ToUser,
	)
	return nil
}

func (uc UseCase) recomputePeriod(
	ctx context.Context,
	copanyID string,
	ownerID string,
	period entities.Period,
	includeAppRevenue bool,
) (RecomputeResult, error) {
	transactions, err := uc.Transactions.ListConfirmedTransactions(ctx, copanyID, period)
	if err != nil {
		return RecomputeResult{}, err
	}
	issues, err := uc.Issues.ListCompletedIssues(ctx, copanyID)
	if err != nil {
		return RecomputeResult{}, err
	}
	contributors, err := uc.Contributors.ListContributors(ctx, copanyID)
	if err != nil {
		return RecomputeResult{}, err
	}

	extraIncome := 0.0
	if includeAppRevenue && uc.AppRevenue != nil {
		currency := services.PeriodCurrency(transactions, period)
		extraIncome, err = uc.AppRevenue.ConvertedMonthlyIncome(ctx, copanyID, period.Month(), currency)
		if err != nil {
			return RecomputeResult{}, err
		}
	}

	computed := services.Compute(services.ComputeInput{
		CopanyID:        copanyID,
		Period:          period,
		Transactions:    transactions,
		Issues:          issues,
		Contributors:    contributors,
		OwnerID:         ownerID,
		ExtraIncome:     extraIncome,
		ZeroScorePolicy: uc.ZeroScorePolicy,
	})

	now := uc.now()
	records := make([]entities.DistributionRecord, 0, len(computed.Records))
	for _, record := range computed.Records {
		recordID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return RecomputeResult{}, err
		}
		record.ID = recordID
		record.CreatedAt = now
		records = append(records, record)
	}

	if err := uc.Store.ReplaceForMonth(ctx, copanyID, period.Month(), records); err != nil {
		return RecomputeResult{}, err
	}

	if err := uc.appendRecomputedOutbox(ctx, copanyID, period.Month(), computed.NetIncome, len(records)); err != nil {
		return RecomputeResult{}, err
	}

	return RecomputeResult{
		Month:       period.Month(),
		NetIncome:   computed.NetIncome,
		Currency:    computed.Currency,
		RecordCount: len(records),
	}, nil
}

func (uc UseCase) appendRecomputedOutbox(ctx context.Context, copanyID, month string, netIncome float64, recordCount int) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]any{
		"copany_id":    copanyID,
		"month":        month,
		"net_income":   netIncome,
		"record_count": recordCount,
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "distribution.recomputed",
		OccurredAt:    uc.now(),
		SourceService: "distribution-engine",
		PartitionKey:  copanyID,
		SchemaVersion: 1,
		Data:          payload,
	})
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
