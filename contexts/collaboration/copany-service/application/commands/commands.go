package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "copany/contexts/collaboration/copany-service/application"
	"copany/contexts/collaboration/copany-service/domain/entities"
	domainerrors "copany/contexts/collaboration/copany-service/domain/errors"
	"copany/contexts/collaboration/copany-service/ports"
)

type CreateCopanyCommand struct {
	Name        string
	Description string
	CreatedBy   string
}

type AddContributorCommand struct {
	CopanyID     string
	UserID       string
	Name         string
	Contribution float64
}

type CreateIssueCommand struct {
	CopanyID string
	Title    string
	Assignee string
	Level    string
}

type UpdateIssueStateCommand struct {
	CopanyID string
	IssueID  string
	State    string
}

type AssignIssueCommand struct {
	CopanyID string
	IssueID  string
	Assignee string
}

type SetIssueLevelCommand struct {
	CopanyID string
	IssueID  string
	Level    string
}

type UseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc UseCase) CreateCopany(ctx context.Context, cmd CreateCopanyCommand) (entities.Copany, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	createdBy := strings.TrimSpace(cmd.CreatedBy)
	if name == "" || createdBy == "" {
		return entities.Copany{}, domainerrors.ErrInvalidCopanyInput
	}
	copanyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Copany{}, err
	}
	now := uc.now()
	copany := entities.Copany{
		ID:          copanyID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Repository.CreateCopany(ctx, copany); err != nil {
		return entities.Copany{}, err
	}

	// The founder joins as the first contributor so distribution always has
	// at least the owner on record.
	if err := uc.Repository.AddContributor(ctx, entities.Contributor{
		CopanyID: copany.ID,
		UserID:   createdBy,
		JoinedAt: now,
	}); err != nil && !errors.Is(err, domainerrors.ErrContributorExists) {
		return entities.Copany{}, err
	}

	logger.Info("copany created",
		"event", "copany_created",
		"module", "collaboration/copany-service",
		"layer", "application",
		"copany_id", copany.ID,
		"created_by", createdBy,
	)
	return copany, nil
}

func (uc UseCase) AddContributor(ctx context.Context, cmd AddContributorCommand) (entities.Contributor, error) {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	userID := strings.TrimSpace(cmd.UserID)
	if copanyID == "" || userID == "" || cmd.Contribution < 0 {
		return entities.Contributor{}, domainerrors.ErrInvalidCopanyInput
	}
	if _, err := uc.Repository.GetCopany(ctx, copanyID); err != nil {
		return entities.Contributor{}, err
	}
	contributor := entities.Contributor{
		CopanyID:     copanyID,
		UserID:       userID,
		Name:         strings.TrimSpace(cmd.Name),
		Contribution: cmd.Contribution,
		JoinedAt:     uc.now(),
	}
	if err := uc.Repository.AddContributor(ctx, contributor); err != nil {
		logger.Warn("copany contributor add failed",
			"event", "copany_contributor_add_failed",
			"module", "collaboration/copany-service",
			"layer", "application",
			"copany_id", copanyID,
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.Contributor{}, err
	}
	logger.Info("copany contributor added",
		"event", "copany_contributor_added",
		"module", "collaboration/copany-service",
		"layer", "application",
		"copany_id", copanyID,
		"user_id", userID,
	)
	return contributor, nil
}

func (uc UseCase) CreateIssue(ctx context.Context, cmd CreateIssueCommand) (entities.Issue, error) {
	logger := application.ResolveLogger(uc.Logger)
	copanyID := strings.TrimSpace(cmd.CopanyID)
	title := strings.TrimSpace(cmd.Title)
	if copanyID == "" || title == "" {
		return entities.Issue{}, domainerrors.ErrInvalidCopanyInput
	}
	level := entities.IssueLevel(strings.TrimSpace(cmd.Level))
	if cmd.Level == "" {
		level = entities.IssueLevelNone
	}
	if !entities.ValidIssueLevel(level) {
		return entities.Issue{}, domainerrors.ErrInvalidCopanyInput
	}
	if _, err := uc.Repository.GetCopany(ctx, copanyID); err != nil {
		return entities.Issue{}, err
	}

	issueID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Issue{}, err
	}
	now := uc.now()
	issue := entities.Issue{
		ID:        issueID,
		CopanyID:  copanyID,
		Title:     title,
		Assignee:  strings.TrimSpace(cmd.Assignee),
		Level:     level,
		State:     entities.IssueStateTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.Repository.CreateIssue(ctx, issue); err != nil {
		return entities.Issue{}, err
	}
	logger.Info("copany issue created",
		"event", "copany_issue_created",
		"module", "collaboration/copany-service",
		"layer", "application",
		"copany_id", copanyID,
		"issue_id", issue.ID,
		"level", string(level),
	)
	return issue, nil
}

// UpdateIssueState moves an issue through its lifecycle. Reaching done
// stamps ClosedAt; leaving done clears it so a reopened issue stops
// counting toward contribution.
func (uc UseCase) UpdateIssueState(ctx context.Context, cmd UpdateIssueStateCommand) (entities.Issue, error) {
	logger := application.ResolveLogger(uc.Logger)
	state := entities.IssueState(strings.TrimSpace(cmd.State))
	if !entities.ValidIssueState(state) {
		return entities.Issue{}, domainerrors.ErrInvalidCopanyInput
	}
	issue, err := uc.Repository.GetIssue(ctx, strings.TrimSpace(cmd.CopanyID), strings.TrimSpace(cmd.IssueID))
	if err != nil {
		return entities.Issue{}, err
	}

	now := uc.now()
	if state == entities.IssueStateDone && issue.State != entities.IssueStateDone {
		closedAt := now
		issue.ClosedAt = &closedAt
	}
	if state != entities.IssueStateDone {
		issue.ClosedAt = nil
	}
	issue.State = state
	issue.UpdatedAt = now
	if err := uc.Repository.UpdateIssue(ctx, issue); err != nil {
		return entities.Issue{}, err
	}
	logger.Info("copany issue state updated",
		"event", "copany_issue_state_updated",
		"module", "collaboration/copany-service",
		"layer", "application",
		"copany_id", issue.CopanyID,
		"issue_id", issue.ID,
		"state", string(state),
	)
	return issue, nil
}

func (uc UseCase) AssignIssue(ctx context.Context, cmd AssignIssueCommand) (entities.Issue, error) {
	issue, err := uc.Repository.GetIssue(ctx, strings.TrimSpace(cmd.CopanyID), strings.TrimSpace(cmd.IssueID))
	if err != nil {
		return entities.Issue{}, err
	}
	issue.Assignee = strings.TrimSpace(cmd.Assignee)
	issue.UpdatedAt = uc.now()
	if err := uc.Repository.UpdateIssue(ctx, issue); err != nil {
		return entities.Issue{}, err
	}
	return issue, nil
}

func (uc UseCase) SetIssueLevel(ctx context.Context, cmd SetIssueLevelCommand) (entities.Issue, error) {
	level := entities.IssueLevel(strings.TrimSpace(cmd.Level))
	if !entities.ValidIssueLevel(level) {
		return entities.Issue{}, domainerrors.ErrInvalidCopanyInput
	}
	issue, err := uc.Repository.GetIssue(ctx, strings.TrimSpace(cmd.CopanyID), strings.TrimSpace(cmd.IssueID))
	if err != nil {
		return entities.Issue{}, err
	}
	issue.Level = level
	issue.UpdatedAt = uc.now()
	if err := uc.Repository.UpdateIssue(ctx, issue); err != nil {
		return entities.Issue{}, err
	}
	return issue, nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
