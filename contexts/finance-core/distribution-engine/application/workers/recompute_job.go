package workers

import (
	"context"
	"log/slog"

	application "copany/contexts/finance-core/distribution-engine/application"
	"copany/contexts/finance-core/distribution-engine/application/commands"
	"copany/contexts/finance-core/distribution-engine/ports"
	"copany/internal/platform/metrics"
)

// HistoricalRecomputeJob walks every copany through the bulk history
// recompute. One copany's failure never halts the others; failures surface
// in the per-copany results and in the metrics counters.
type HistoricalRecomputeJob struct {
	Copanies ports.CopanySource
	Commands commands.UseCase
	Logger   *slog.Logger
}

type CopanyResult struct {
	CopanyID string
	Months   []commands.MonthResult
	Err      error
}

func (j HistoricalRecomputeJob) RunOnce(ctx context.Context) ([]CopanyResult, error) {
	logger := application.ResolveLogger(j.Logger)
	copanyIDs, err := j.Copanies.ListCopanyIDs(ctx)
	if err != nil {
		logger.Error("distribution recompute copany list failed",
			"event", "distribution_recompute_copany_list_failed",
			"module", "finance-core/distribution-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return nil, err
	}

	results := make([]CopanyResult, 0, len(copanyIDs))
	for _, copanyID := range copanyIDs {
		months, err := j.Commands.RecomputeHistory(ctx, commands.RecomputeHistoryCommand{CopanyID: copanyID})
		if err != nil {
			metrics.RecomputeFailures.Inc()
			logger.Error("distribution recompute copany failed",
				"event", "distribution_recompute_copany_failed",
				"module", "finance-core/distribution-engine",
				"layer", "worker",
				"copany_id", copanyID,
				"error", err.Error(),
			)
			results = append(results, CopanyResult{CopanyID: copanyID, Err: err})
			continue
		}
		written := 0
		for _, month := range months {
			if month.Err != nil {
				metrics.RecomputeFailures.Inc()
				continue
			}
			if !month.Skipped {
				written += month.RecordCount
			}
		}
		metrics.RecomputeRuns.Inc()
		metrics.RecordsWritten.Add(float64(written))
		results = append(results, CopanyResult{CopanyID: copanyID, Months: months})
	}

	logger.Info("distribution recompute cycle completed",
		"event", "distribution_recompute_cycle_completed",
		"module", "finance-core/distribution-engine",
		"layer", "worker",
		"copany_count", len(copanyIDs),
	)
	return results, nil
}
