package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
	"copany/contexts/finance-core/distribution-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CopanyOwner(ctx context.Context, copanyID string) (string, error) {
	var row copanyProjectionModel
	err := r.db.WithContext(ctx).
		Select("id", "created_by").
		Where("id = ?", strings.TrimSpace(copanyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrCopanyNotFound
		}
		return "", r.logError("distribution_repo_copany_owner_failed", err, "copany_id", copanyID)
	}
	return row.CreatedBy, nil
}

func (r *Repository) ListCopanyIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&copanyProjectionModel{}).
		Order("id asc").
		Pluck("id", &ids).
		Error; err != nil {
		return nil, r.logError("distribution_repo_copany_list_failed", err)
	}
	return ids, nil
}

func (r *Repository) ListConfirmedTransactions(ctx context.Context, copanyID string, period entities.Period) ([]entities.Transaction, error) {
	query := r.db.WithContext(ctx).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Where("status = ?", string(entities.TransactionStatusConfirmed))
	if !period.Start.IsZero() {
		query = query.Where("occurred_at >= ? AND occurred_at < ?", period.Start, period.End)
	}
	var rows []transactionProjectionModel
	if err := query.Order("occurred_at asc").Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_transaction_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) ListAllTransactions(ctx context.Context, copanyID string) ([]entities.Transaction, error) {
	var rows []transactionProjectionModel
	if err := r.db.WithContext(ctx).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Order("occurred_at asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("distribution_repo_transaction_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) ListCompletedIssues(ctx context.Context, copanyID string) ([]entities.Issue, error) {
	var rows []issueProjectionModel
	if err := r.db.WithContext(ctx).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Where("state = ?", string(entities.IssueStateDone)).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("distribution_repo_issue_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Issue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) ListContributors(ctx context.Context, copanyID string) ([]entities.Contributor, error) {
	var rows []contributorProjectionModel
	if err := r.db.WithContext(ctx).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Order("joined_at asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("distribution_repo_contributor_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Contributor, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) ListRecords(ctx context.Context, copanyID, month string) ([]entities.DistributionRecord, error) {
	query := r.db.WithContext(ctx).Where("copany_id = ?", strings.TrimSpace(copanyID))
	if strings.TrimSpace(month) != "" {
		query = query.Where("distribution_month = ?", strings.TrimSpace(month))
	}
	var rows []distributionRecordModel
	if err := query.Order("distribution_month asc, to_user asc").Find(&rows).Error; err != nil {
		return nil, r.logError("distribution_repo_record_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.DistributionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) GetRecord(ctx context.Context, copanyID, recordID string) (entities.DistributionRecord, error) {
	var row distributionRecordModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(recordID)).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DistributionRecord{}, domainerrors.ErrRecordNotFound
		}
		return entities.DistributionRecord{}, r.logError("distribution_repo_record_get_failed", err,
			"copany_id", copanyID,
			"record_id", recordID,
		)
	}
	return row.toEntity(), nil
}

// ReplaceForMonth keeps delete and insert inside one transaction so a
// partial failure cannot leave the month with zero records.
func (r *Repository) ReplaceForMonth(ctx context.Context, copanyID, month string, records []entities.DistributionRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("copany_id = ?", strings.TrimSpace(copanyID)).
			Where("distribution_month = ?", strings.TrimSpace(month)).
			Delete(&distributionRecordModel{}).
			Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]distributionRecordModel, 0, len(records))
		for _, record := range records {
			rows = append(rows, distributionRecordModelFromEntity(record))
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return r.logError("distribution_repo_replace_month_failed", err,
			"copany_id", copanyID,
			"month", month,
			"record_count", len(records),
		)
	}
	return nil
}

func (r *Repository) ConfirmRecord(ctx context.Context, copanyID, recordID string, confirmedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&distributionRecordModel{}).
		Where("id = ?", strings.TrimSpace(recordID)).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Updates(map[string]any{
			"status":     string(entities.DistributionStatusConfirmed),
			"updated_at": confirmedAt,
		})
	if result.Error != nil {
		return r.logError("distribution_repo_record_confirm_failed", result.Error,
			"copany_id", copanyID,
			"record_id", recordID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	row := distributionOutboxModel{
		ID:           event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      []byte(event.Data),
		Status:       "pending",
		CreatedAt:    event.OccurredAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("distribution_repo_outbox_append_failed", err, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.EventEnvelope, error) {
	var rows []distributionOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at asc").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("distribution_repo_outbox_list_failed", err)
	}
	out := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.EventEnvelope{
			EventID:       row.ID,
			EventType:     row.EventType,
			OccurredAt:    row.CreatedAt,
			SourceService: "distribution-engine",
			PartitionKey:  row.PartitionKey,
			SchemaVersion: 1,
			Data:          row.Payload,
		})
	}
	return out, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, eventID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&distributionOutboxModel{}).
		Where("id = ?", strings.TrimSpace(eventID)).
		Updates(map[string]any{
			"status":       "published",
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return r.logError("distribution_repo_outbox_mark_failed", result.Error, "event_id", eventID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/distribution-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("distribution repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type copanyProjectionModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	CreatedBy string `gorm:"column:created_by"`
}

func (copanyProjectionModel) TableName() string {
	return "copanies"
}

type transactionProjectionModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	CopanyID   string    `gorm:"column:copany_id"`
	Type       string    `gorm:"column:type"`
	Amount     float64   `gorm:"column:amount"`
	Currency   string    `gorm:"column:currency"`
	Status     string    `gorm:"column:status"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func (transactionProjectionModel) TableName() string {
	return "transactions"
}

func (m transactionProjectionModel) toEntity() entities.Transaction {
	return entities.Transaction{
		ID:         m.ID,
		CopanyID:   m.CopanyID,
		Type:       entities.TransactionType(m.Type),
		Amount:     m.Amount,
		Currency:   m.Currency,
		Status:     entities.TransactionStatus(m.Status),
		OccurredAt: m.OccurredAt.UTC(),
	}
}

type issueProjectionModel struct {
	ID       string     `gorm:"column:id;primaryKey"`
	CopanyID string     `gorm:"column:copany_id"`
	Assignee string     `gorm:"column:assignee"`
	Level    string     `gorm:"column:level"`
	State    string     `gorm:"column:state"`
	ClosedAt *time.Time `gorm:"column:closed_at"`
}

func (issueProjectionModel) TableName() string {
	return "issues"
}

func (m issueProjectionModel) toEntity() entities.Issue {
	return entities.Issue{
		ID:       m.ID,
		CopanyID: m.CopanyID,
		Assignee: m.Assignee,
		Level:    entities.IssueLevel(m.Level),
		State:    entities.IssueState(m.State),
		ClosedAt: m.ClosedAt,
	}
}

type contributorProjectionModel struct {
	CopanyID     string  `gorm:"column:copany_id;primaryKey"`
	UserID       string  `gorm:"column:user_id;primaryKey"`
	Name         string  `gorm:"column:name"`
	Contribution float64 `gorm:"column:contribution"`
}

func (contributorProjectionModel) TableName() string {
	return "copany_contributors"
}

func (m contributorProjectionModel) toEntity() entities.Contributor {
	return entities.Contributor{
		CopanyID:     m.CopanyID,
		UserID:       m.UserID,
		Name:         m.Name,
		Contribution: m.Contribution,
	}
}

type distributionRecordModel struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	CopanyID            string    `gorm:"column:copany_id"`
	ToUser              string    `gorm:"column:to_user"`
	Status              string    `gorm:"column:status"`
	ContributionPercent float64   `gorm:"column:contribution_percent"`
	Amount              float64   `gorm:"column:amount"`
	Currency            string    `gorm:"column:currency"`
	EvidenceURL         string    `gorm:"column:evidence_url"`
	Month               string    `gorm:"column:distribution_month"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (distributionRecordModel) TableName() string {
	return "distribution_records"
}

func (m distributionRecordModel) toEntity() entities.DistributionRecord {
	return entities.DistributionRecord{
		ID:                  m.ID,
		CopanyID:            m.CopanyID,
		ToUser:              m.ToUser,
		Status:              entities.DistributionStatus(m.Status),
		ContributionPercent: m.ContributionPercent,
		Amount:              m.Amount,
		Currency:            m.Currency,
		EvidenceURL:         m.EvidenceURL,
		Month:               m.Month,
		CreatedAt:           m.CreatedAt.UTC(),
	}
}

func distributionRecordModelFromEntity(record entities.DistributionRecord) distributionRecordModel {
	return distributionRecordModel{
		ID:                  record.ID,
		CopanyID:            record.CopanyID,
		ToUser:              record.ToUser,
		Status:              string(record.Status),
		ContributionPercent: record.ContributionPercent,
		Amount:              record.Amount,
		Currency:            record.Currency,
		EvidenceURL:         record.EvidenceURL,
		Month:               record.Month,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.CreatedAt,
	}
}

type distributionOutboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (distributionOutboxModel) TableName() string {
	return "distribution_outbox"
}
