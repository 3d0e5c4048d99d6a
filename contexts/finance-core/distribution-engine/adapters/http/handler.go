package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "copany/contexts/finance-core/distribution-engine/application"
	"copany/contexts/finance-core/distribution-engine/application/commands"
	"copany/contexts/finance-core/distribution-engine/application/queries"
	"copany/contexts/finance-core/distribution-engine/domain/entities"
	httptransport "copany/contexts/finance-core/distribution-engine/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) RecomputeHandler(ctx context.Context, userID, copanyID string) (httptransport.RecomputeResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Commands.RecomputeCurrentMonth(ctx, commands.RecomputeCurrentMonthCommand{
		CopanyID:    copanyID,
		RequestedBy: userID,
	})
	if err != nil {
		logger.Warn("distribution http recompute failed",
			"event", "distribution_http_recompute_failed",
			"module", "finance-core/distribution-engine",
			"layer", "adapter",
			"copany_id", strings.TrimSpace(copanyID),
			"error", err.Error(),
		)
		return httptransport.RecomputeResponse{}, err
	}
	return httptransport.RecomputeResponse{
		Month:       result.Month,
		NetIncome:   result.NetIncome,
		Currency:    result.Currency,
		RecordCount: result.RecordCount,
	}, nil
}

func (h Handler) ListRecordsHandler(ctx context.Context, copanyID, month string) (httptransport.ListRecordsResponse, error) {
	records, err := h.Queries.ListRecords(ctx, copanyID, month)
	if err != nil {
		return httptransport.ListRecordsResponse{}, err
	}
	out := httptransport.ListRecordsResponse{Records: make([]httptransport.DistributionRecordDTO, 0, len(records))}
	for _, record := range records {
		out.Records = append(out.Records, recordDTO(record))
	}
	return out, nil
}

func (h Handler) SummaryHandler(ctx context.Context, copanyID, month string) (httptransport.MonthSummaryResponse, error) {
	summary, err := h.Queries.Summary(ctx, copanyID, month)
	if err != nil {
		return httptransport.MonthSummaryResponse{}, err
	}
	return httptransport.MonthSummaryResponse{
		Month:            summary.Month,
		Currency:         summary.Currency,
		TotalDistributed: summary.TotalDistributed,
		RecordCount:      summary.RecordCount,
		ConfirmedCount:   summary.ConfirmedCount,
	}, nil
}

func (h Handler) ConfirmRecordHandler(ctx context.Context, userID, copanyID, recordID string) error {
	logger := application.ResolveLogger(h.Logger)
	if err := h.Commands.ConfirmRecord(ctx, commands.ConfirmRecordCommand{
		CopanyID:    copanyID,
		RecordID:    recordID,
		RequestedBy: userID,
	}); err != nil {
		logger.Warn("distribution http confirm failed",
			"event", "distribution_http_confirm_failed",
			"module", "finance-core/distribution-engine",
			"layer", "adapter",
			"copany_id", strings.TrimSpace(copanyID),
			"record_id", strings.TrimSpace(recordID),
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func recordDTO(record entities.DistributionRecord) httptransport.DistributionRecordDTO {
	return httptransport.DistributionRecordDTO{
		ID:                  record.ID,
		CopanyID:            record.CopanyID,
		ToUser:              record.ToUser,
		Status:              string(record.Status),
		ContributionPercent: record.ContributionPercent,
		Amount:              record.Amount,
		Currency:            record.Currency,
		EvidenceURL:         record.EvidenceURL,
		Month:               record.Month,
		CreatedAt:           record.CreatedAt.UTC().Format(time.RFC3339),
	}
}
