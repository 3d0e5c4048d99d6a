package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"copany/contexts/finance-core/ledger-service/domain/entities"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	"copany/contexts/finance-core/ledger-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateTransaction(ctx context.Context, tx entities.Transaction) error {
	row := transactionModelFromEntity(tx)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidLedgerInput
		}
		return r.logError("ledger_repo_transaction_create_failed", err,
			"copany_id", tx.CopanyID,
			"transaction_id", tx.ID,
		)
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, copanyID, transactionID string) (entities.Transaction, error) {
	var row transactionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(transactionID)).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Transaction{}, domainerrors.ErrTransactionNotFound
		}
		return entities.Transaction{}, r.logError("ledger_repo_transaction_get_failed", err,
			"copany_id", copanyID,
			"transaction_id", transactionID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx entities.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("id = ?", tx.ID).
		Where("copany_id = ?", tx.CopanyID).
		Updates(map[string]any{
			"amount":       tx.Amount,
			"status":       string(tx.Status),
			"description":  tx.Description,
			"confirmed_at": tx.ConfirmedAt,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_transaction_update_failed", result.Error,
			"copany_id", tx.CopanyID,
			"transaction_id", tx.ID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTransactionNotFound
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context, copanyID string, filter ports.TransactionFilter) ([]entities.Transaction, error) {
	query := r.db.WithContext(ctx).Where("copany_id = ?", strings.TrimSpace(copanyID))
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Month != "" {
		start, err := time.Parse("2006-01", filter.Month)
		if err != nil {
			return nil, domainerrors.ErrInvalidMonthKey
		}
		query = query.Where("occurred_at >= ? AND occurred_at < ?", start, start.AddDate(0, 1, 0))
	}
	var rows []transactionModel
	if err := query.Order("occurred_at asc").Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_transaction_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) UpsertAppRevenue(ctx context.Context, entry entities.AppRevenueEntry) error {
	row := appRevenueModelFromEntity(entry)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "copany_id"}, {Name: "revenue_month"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "currency", "updated_at",
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("ledger_repo_app_revenue_upsert_failed", err,
			"copany_id", entry.CopanyID,
			"month", entry.Month,
			"source", entry.Source,
		)
	}
	return nil
}

func (r *Repository) ListAppRevenue(ctx context.Context, copanyID, month string) ([]entities.AppRevenueEntry, error) {
	query := r.db.WithContext(ctx).Where("copany_id = ?", strings.TrimSpace(copanyID))
	if strings.TrimSpace(month) != "" {
		query = query.Where("revenue_month = ?", strings.TrimSpace(month))
	}
	var rows []appRevenueModel
	if err := query.Order("revenue_month asc, source asc").Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_app_revenue_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.AppRevenueEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "finance-core/ledger-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type transactionModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	CopanyID    string     `gorm:"column:copany_id"`
	Type        string     `gorm:"column:type"`
	Amount      float64    `gorm:"column:amount"`
	Currency    string     `gorm:"column:currency"`
	Status      string     `gorm:"column:status"`
	Description string     `gorm:"column:description"`
	OccurredAt  time.Time  `gorm:"column:occurred_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	ConfirmedAt *time.Time `gorm:"column:confirmed_at"`
}

func (transactionModel) TableName() string {
	return "transactions"
}

func (m transactionModel) toEntity() entities.Transaction {
	return entities.Transaction{
		ID:          m.ID,
		CopanyID:    m.CopanyID,
		Type:        entities.TransactionType(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Status:      entities.TransactionStatus(m.Status),
		Description: m.Description,
		OccurredAt:  m.OccurredAt.UTC(),
		CreatedAt:   m.CreatedAt.UTC(),
		ConfirmedAt: m.ConfirmedAt,
	}
}

func transactionModelFromEntity(tx entities.Transaction) transactionModel {
	return transactionModel{
		ID:          tx.ID,
		CopanyID:    tx.CopanyID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Status:      string(tx.Status),
		Description: tx.Description,
		OccurredAt:  tx.OccurredAt,
		CreatedAt:   tx.CreatedAt,
		ConfirmedAt: tx.ConfirmedAt,
	}
}

type appRevenueModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	CopanyID  string    `gorm:"column:copany_id"`
	Month     string    `gorm:"column:revenue_month"`
	Amount    float64   `gorm:"column:amount"`
	Currency  string    `gorm:"column:currency"`
	Source    string    `gorm:"column:source"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (appRevenueModel) TableName() string {
	return "app_revenue_entries"
}

func (m appRevenueModel) toEntity() entities.AppRevenueEntry {
	return entities.AppRevenueEntry{
		ID:        m.ID,
		CopanyID:  m.CopanyID,
		Month:     m.Month,
		Amount:    m.Amount,
		Currency:  m.Currency,
		Source:    m.Source,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func appRevenueModelFromEntity(entry entities.AppRevenueEntry) appRevenueModel {
	return appRevenueModel{
		ID:        entry.ID,
		CopanyID:  entry.CopanyID,
		Month:     entry.Month,
		Amount:    entry.Amount,
		Currency:  entry.Currency,
		Source:    entry.Source,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}
