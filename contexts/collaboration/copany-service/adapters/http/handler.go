package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "copany/contexts/collaboration/copany-service/application"
	"copany/contexts/collaboration/copany-service/application/commands"
	"copany/contexts/collaboration/copany-service/application/queries"
	"copany/contexts/collaboration/copany-service/domain/entities"
	httptransport "copany/contexts/collaboration/copany-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) CreateCopanyHandler(ctx context.Context, userID string, req httptransport.CreateCopanyRequest) (httptransport.CopanyDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	copany, err := h.Commands.CreateCopany(ctx, commands.CreateCopanyCommand{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		logger.Warn("copany http create failed",
			"event", "copany_http_create_failed",
			"module", "collaboration/copany-service",
			"layer", "adapter",
			"user_id", strings.TrimSpace(userID),
			"error", err.Error(),
		)
		return httptransport.CopanyDTO{}, err
	}
	return copanyDTO(copany), nil
}

func (h Handler) GetCopanyHandler(ctx context.Context, copanyID string) (httptransport.CopanyDTO, error) {
	copany, err := h.Queries.GetCopany(ctx, copanyID)
	if err != nil {
		return httptransport.CopanyDTO{}, err
	}
	return copanyDTO(copany), nil
}

func (h Handler) ListCopaniesHandler(ctx context.Context) (httptransport.ListCopaniesResponse, error) {
	copanies, err := h.Queries.ListCopanies(ctx)
	if err != nil {
		return httptransport.ListCopaniesResponse{}, err
	}
	out := httptransport.ListCopaniesResponse{Copanies: make([]httptransport.CopanyDTO, 0, len(copanies))}
	for _, copany := range copanies {
		out.Copanies = append(out.Copanies, copanyDTO(copany))
	}
	return out, nil
}

func (h Handler) AddContributorHandler(ctx context.Context, copanyID string, req httptransport.AddContributorRequest) (httptransport.ContributorDTO, error) {
	contributor, err := h.Commands.AddContributor(ctx, commands.AddContributorCommand{
		CopanyID:     copanyID,
		UserID:       req.UserID,
		Name:         req.Name,
		Contribution: req.Contribution,
	})
	if err != nil {
		return httptransport.ContributorDTO{}, err
	}
	return contributorDTO(contributor), nil
}

func (h Handler) ListContributorsHandler(ctx context.Context, copanyID string) (httptransport.ListContributorsResponse, error) {
	contributors, err := h.Queries.ListContributors(ctx, copanyID)
	if err != nil {
		return httptransport.ListContributorsResponse{}, err
	}
	out := httptransport.ListContributorsResponse{Contributors: make([]httptransport.ContributorDTO, 0, len(contributors))}
	for _, contributor := range contributors {
		out.Contributors = append(out.Contributors, contributorDTO(contributor))
	}
	return out, nil
}

func (h Handler) CreateIssueHandler(ctx context.Context, copanyID string, req httptransport.CreateIssueRequest) (httptransport.IssueDTO, error) {
	issue, err := h.Commands.CreateIssue(ctx, commands.CreateIssueCommand{
		CopanyID: copanyID,
		Title:    req.Title,
		Assignee: req.Assignee,
		Level:    req.Level,
	})
	if err != nil {
		return httptransport.IssueDTO{}, err
	}
	return issueDTO(issue), nil
}

// UpdateIssueHandler applies whichever of state, assignee, and level the
// request carries. State runs last so ClosedAt stamping sees the final shape.
func (h Handler) UpdateIssueHandler(ctx context.Context, copanyID, issueID string, req httptransport.UpdateIssueRequest) (httptransport.IssueDTO, error) {
	var (
		issue entities.Issue
		err   error
	)
	if strings.TrimSpace(req.Assignee) != "" {
		issue, err = h.Commands.AssignIssue(ctx, commands.AssignIssueCommand{
			CopanyID: copanyID,
			IssueID:  issueID,
			Assignee: req.Assignee,
		})
		if err != nil {
			return httptransport.IssueDTO{}, err
		}
	}
	if strings.TrimSpace(req.Level) != "" {
		issue, err = h.Commands.SetIssueLevel(ctx, commands.SetIssueLevelCommand{
			CopanyID: copanyID,
			IssueID:  issueID,
			Level:    req.Level,
		})
		if err != nil {
			return httptransport.IssueDTO{}, err
		}
	}
	if strings.TrimSpace(req.State) != "" {
		issue, err = h.Commands.UpdateIssueState(ctx, commands.UpdateIssueStateCommand{
			CopanyID: copanyID,
			IssueID:  issueID,
			State:    req.State,
		})
		if err != nil {
			return httptransport.IssueDTO{}, err
		}
	}
	if issue.ID == "" {
		issue, err = h.Queries.GetIssue(ctx, copanyID, issueID)
		if err != nil {
			return httptransport.IssueDTO{}, err
		}
	}
	return issueDTO(issue), nil
}

func (h Handler) GetIssueHandler(ctx context.Context, copanyID, issueID string) (httptransport.IssueDTO, error) {
	issue, err := h.Queries.GetIssue(ctx, copanyID, issueID)
	if err != nil {
		return httptransport.IssueDTO{}, err
	}
	return issueDTO(issue), nil
}

func (h Handler) ListIssuesHandler(ctx context.Context, copanyID, state, assignee string) (httptransport.ListIssuesResponse, error) {
	issues, err := h.Queries.ListIssues(ctx, queries.ListIssuesQuery{
		CopanyID: copanyID,
		State:    state,
		Assignee: assignee,
	})
	if err != nil {
		return httptransport.ListIssuesResponse{}, err
	}
	out := httptransport.ListIssuesResponse{Issues: make([]httptransport.IssueDTO, 0, len(issues))}
	for _, issue := range issues {
		out.Issues = append(out.Issues, issueDTO(issue))
	}
	return out, nil
}

func copanyDTO(copany entities.Copany) httptransport.CopanyDTO {
	return httptransport.CopanyDTO{
		ID:          copany.ID,
		Name:        copany.Name,
		Description: copany.Description,
		CreatedBy:   copany.CreatedBy,
		CreatedAt:   copany.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   copany.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func contributorDTO(contributor entities.Contributor) httptransport.ContributorDTO {
	return httptransport.ContributorDTO{
		CopanyID:     contributor.CopanyID,
		UserID:       contributor.UserID,
		Name:         contributor.Name,
		Contribution: contributor.Contribution,
		JoinedAt:     contributor.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func issueDTO(issue entities.Issue) httptransport.IssueDTO {
	dto := httptransport.IssueDTO{
		ID:        issue.ID,
		CopanyID:  issue.CopanyID,
		Title:     issue.Title,
		Assignee:  issue.Assignee,
		Level:     string(issue.Level),
		State:     string(issue.State),
		CreatedAt: issue.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: issue.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if issue.ClosedAt != nil {
		dto.ClosedAt = issue.ClosedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
