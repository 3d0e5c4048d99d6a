package queries

import (
	"context"
	"log/slog"
	"strings"

	"copany/contexts/collaboration/copany-service/domain/entities"
	domainerrors "copany/contexts/collaboration/copany-service/domain/errors"
	"copany/contexts/collaboration/copany-service/ports"
)

type ListIssuesQuery struct {
	CopanyID string
	State    string
	Assignee string
}

type UseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc UseCase) GetCopany(ctx context.Context, copanyID string) (entities.Copany, error) {
	copanyID = strings.TrimSpace(copanyID)
	if copanyID == "" {
		return entities.Copany{}, domainerrors.ErrInvalidCopanyInput
	}
	return uc.Repository.GetCopany(ctx, copanyID)
}

func (uc UseCase) ListCopanies(ctx context.Context) ([]entities.Copany, error) {
	return uc.Repository.ListCopanies(ctx)
}

func (uc UseCase) ListContributors(ctx context.Context, copanyID string) ([]entities.Contributor, error) {
	copanyID = strings.TrimSpace(copanyID)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidCopanyInput
	}
	if _, err := uc.Repository.GetCopany(ctx, copanyID); err != nil {
		return nil, err
	}
	return uc.Repository.ListContributors(ctx, copanyID)
}

func (uc UseCase) ListIssues(ctx context.Context, query ListIssuesQuery) ([]entities.Issue, error) {
	copanyID := strings.TrimSpace(query.CopanyID)
	if copanyID == "" {
		return nil, domainerrors.ErrInvalidCopanyInput
	}
	filter := ports.IssueFilter{Assignee: strings.TrimSpace(query.Assignee)}
	if state := strings.TrimSpace(query.State); state != "" {
		if !entities.ValidIssueState(entities.IssueState(state)) {
			return nil, domainerrors.ErrInvalidCopanyInput
		}
		filter.State = entities.IssueState(state)
	}
	return uc.Repository.ListIssues(ctx, copanyID, filter)
}

func (uc UseCase) GetIssue(ctx context.Context, copanyID, issueID string) (entities.Issue, error) {
	copanyID = strings.TrimSpace(copanyID)
	issueID = strings.TrimSpace(issueID)
	if copanyID == "" || issueID == "" {
		return entities.Issue{}, domainerrors.ErrInvalidCopanyInput
	}
	return uc.Repository.GetIssue(ctx, copanyID, issueID)
}
