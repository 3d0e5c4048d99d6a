package ports

import (
	"context"
	"time"

	"copany/contexts/collaboration/copany-service/domain/entities"
)

type IssueFilter struct {
	State    entities.IssueState
	Assignee string
}

type Repository interface {
	CreateCopany(ctx context.Context, copany entities.Copany) error
	GetCopany(ctx context.Context, copanyID string) (entities.Copany, error)
	ListCopanies(ctx context.Context) ([]entities.Copany, error)
	AddContributor(ctx context.Context, contributor entities.Contributor) error
	ListContributors(ctx context.Context, copanyID string) ([]entities.Contributor, error)
	CreateIssue(ctx context.Context, issue entities.Issue) error
	GetIssue(ctx context.Context, copanyID, issueID string) (entities.Issue, error)
	UpdateIssue(ctx context.Context, issue entities.Issue) error
	ListIssues(ctx context.Context, copanyID string, filter IssueFilter) ([]entities.Issue, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
