package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"copany/contexts/collaboration/copany-service/domain/entities"
	domainerrors "copany/contexts/collaboration/copany-service/domain/errors"
	"copany/contexts/collaboration/copany-service/ports"

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

func (r *Repository) CreateCopany(ctx context.Context, copany entities.Copany) error {
	row := copanyModelFromEntity(copany)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrCopanyExists
		}
		return r.logError("copany_repo_create_failed", err, "copany_id", copany.ID)
	}
	return nil
}

func (r *Repository) GetCopany(ctx context.Context, copanyID string) (entities.Copany, error) {
	var row copanyModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(copanyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Copany{}, domainerrors.ErrCopanyNotFound
		}
		return entities.Copany{}, r.logError("copany_repo_get_failed", err, "copany_id", copanyID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCopanies(ctx context.Context) ([]entities.Copany, error) {
	var rows []copanyModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, r.logError("copany_repo_list_failed", err)
	}
	out := make([]entities.Copany, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) AddContributor(ctx context.Context, contributor entities.Contributor) error {
	row := contributorModelFromEntity(contributor)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrContributorExists
		}
		return r.logError("copany_repo_contributor_add_failed", err,
			"copany_id", contributor.CopanyID,
			"user_id", contributor.UserID,
		)
	}
	return nil
}

func (r *Repository) ListContributors(ctx context.Context, copanyID string) ([]entities.Contributor, error) {
	var rows []contributorModel
	if err := r.db.WithContext(ctx).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		Order("joined_at asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("copany_repo_contributor_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Contributor, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) CreateIssue(ctx context.Context, issue entities.Issue) error {
	row := issueModelFromEntity(issue)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("copany_repo_issue_create_failed", err, "issue_id", issue.ID)
	}
	return nil
}

func (r *Repository) GetIssue(ctx context.Context, copanyID, issueID string) (entities.Issue, error) {
	var row issueModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(issueID)).
		Where("copany_id = ?", strings.TrimSpace(copanyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Issue{}, domainerrors.ErrIssueNotFound
		}
		return entities.Issue{}, r.logError("copany_repo_issue_get_failed", err, "issue_id", issueID)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateIssue(ctx context.Context, issue entities.Issue) error {
	row := issueModelFromEntity(issue)
	result := r.db.WithContext(ctx).
		Model(&issueModel{}).
		Where("id = ?", issue.ID).
		Where("copany_id = ?", issue.CopanyID).
		Updates(map[string]any{
			"title":      row.Title,
			"assignee":   row.Assignee,
			"level":      row.Level,
			"state":      row.State,
			"closed_at":  row.ClosedAt,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("copany_repo_issue_update_failed", result.Error, "issue_id", issue.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrIssueNotFound
	}
	return nil
}

func (r *Repository) ListIssues(ctx context.Context, copanyID string, filter ports.IssueFilter) ([]entities.Issue, error) {
	query := r.db.WithContext(ctx).Where("copany_id = ?", strings.TrimSpace(copanyID))
	if filter.State != "" {
		query = query.Where("state = ?", string(filter.State))
	}
	if filter.Assignee != "" {
		query = query.Where("assignee = ?", filter.Assignee)
	}
	var rows []issueModel
	if err := query.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, r.logError("copany_repo_issue_list_failed", err, "copany_id", copanyID)
	}
	out := make([]entities.Issue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collaboration/copany-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("copany repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type copanyModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (copanyModel) TableName() string {
	return "copanies"
}

func (m copanyModel) toEntity() entities.Copany {
	return entities.Copany{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func copanyModelFromEntity(copany entities.Copany) copanyModel {
	return copanyModel{
		ID:          copany.ID,
		Name:        copany.Name,
		Description: copany.Description,
		CreatedBy:   copany.CreatedBy,
		CreatedAt:   copany.CreatedAt,
		UpdatedAt:   copany.UpdatedAt,
	}
}

type contributorModel struct {
	CopanyID     string    `gorm:"column:copany_id;primaryKey"`
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Contribution float64   `gorm:"column:contribution"`
	JoinedAt     time.Time `gorm:"column:joined_at"`
}

func (contributorModel) TableName() string {
	return "copany_contributors"
}

func (m contributorModel) toEntity() entities.Contributor {
	return entities.Contributor{
		CopanyID:     m.CopanyID,
		UserID:       m.UserID,
		Name:         m.Name,
		Contribution: m.Contribution,
		JoinedAt:     m.JoinedAt.UTC(),
	}
}

func contributorModelFromEntity(contributor entities.Contributor) contributorModel {
	return contributorModel{
		CopanyID:     contributor.CopanyID,
		UserID:       contributor.UserID,
		Name:         contributor.Name,
		Contribution: contributor.Contribution,
		JoinedAt:     contributor.JoinedAt,
	}
}

type issueModel struct {
	ID        string     `gorm:"column:id;primaryKey"`
	CopanyID  string     `gorm:"column:copany_id"`
	Title     string     `gorm:"column:title"`
	Assignee  string     `gorm:"column:assignee"`
	Level     string     `gorm:"column:level"`
	State     string     `gorm:"column:state"`
	ClosedAt  *time.Time `gorm:"column:closed_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (issueModel) TableName() string {
	return "issues"
}

func (m issueModel) toEntity() entities.Issue {
	return entities.Issue{
		ID:        m.ID,
		CopanyID:  m.CopanyID,
		Title:     m.Title,
		Assignee:  m.Assignee,
		Level:     entities.IssueLevel(m.Level),
		State:     entities.IssueState(m.State),
		ClosedAt:  m.ClosedAt,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func issueModelFromEntity(issue entities.Issue) issueModel {
	return issueModel{
		ID:        issue.ID,
		CopanyID:  issue.CopanyID,
		Title:     issue.Title,
		Assignee:  issue.Assignee,
		Level:     string(issue.Level),
		State:     string(issue.State),
		ClosedAt:  issue.ClosedAt,
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
	}
}
