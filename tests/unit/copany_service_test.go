package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	copanyservice "copany/contexts/collaboration/copany-service"
	domainerrors "copany/contexts/collaboration/copany-service/domain/errors"
	httptransport "copany/contexts/collaboration/copany-service/transport/http"
)

func TestCopanyCreateAddsFounderContributor(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{
		Name:        "Acme Copany",
		Description: "shared revenue experiment",
	})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}
	if copany.CreatedBy != "founder" {
		t.Fatalf("expected creator founder, got %s", copany.CreatedBy)
	}

	contributors, err := module.Handler.ListContributorsHandler(ctx, copany.ID)
	if err != nil {
		t.Fatalf("list contributors failed: %v", err)
	}
	if len(contributors.Contributors) != 1 || contributors.Contributors[0].UserID != "founder" {
		t.Fatalf("expected founder as first contributor, got %+v", contributors.Contributors)
	}
}

func TestCopanyCreateRejectsBlankName(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)

	_, err := module.Handler.CreateCopanyHandler(context.Background(), "founder", httptransport.CreateCopanyRequest{
		Name: "   ",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCopanyInput) {
		t.Fatalf("expected ErrInvalidCopanyInput, got %v", err)
	}
}

func TestCopanyAddContributorDuplicateRejected(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}

	if _, err := module.Handler.AddContributorHandler(ctx, copany.ID, httptransport.AddContributorRequest{
		UserID: "bob", Contribution: 1,
	}); err != nil {
		t.Fatalf("add contributor failed: %v", err)
	}
	_, err = module.Handler.AddContributorHandler(ctx, copany.ID, httptransport.AddContributorRequest{
		UserID: "bob",
	})
	if !errors.Is(err, domainerrors.ErrContributorExists) {
		t.Fatalf("expected ErrContributorExists, got %v", err)
	}
}

func TestCopanyIssueLifecycleStampsAndClearsClosedAt(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	module.Store.SetNow(now)

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}
	issue, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{
		Title:    "ship payouts",
		Assignee: "bob",
		Level:    "B",
	})
	if err != nil {
		t.Fatalf("create issue failed: %v", err)
	}
	if issue.State != "todo" || issue.ClosedAt != "" {
		t.Fatalf("new issue must be open, got state=%s closed_at=%q", issue.State, issue.ClosedAt)
	}

	done, err := module.Handler.UpdateIssueHandler(ctx, copany.ID, issue.ID, httptransport.UpdateIssueRequest{State: "done"})
	if err != nil {
		t.Fatalf("move to done failed: %v", err)
	}
	if done.ClosedAt == "" {
		t.Fatalf("reaching done must stamp closed_at")
	}

	reopened, err := module.Handler.UpdateIssueHandler(ctx, copany.ID, issue.ID, httptransport.UpdateIssueRequest{State: "in_progress"})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.ClosedAt != "" {
		t.Fatalf("leaving done must clear closed_at, got %q", reopened.ClosedAt)
	}
}

func TestCopanyIssueDefaultsToLevelNone(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}
	issue, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{Title: "untriaged"})
	if err != nil {
		t.Fatalf("create issue failed: %v", err)
	}
	if issue.Level != "none" {
		t.Fatalf("expected default level none, got %s", issue.Level)
	}
}

func TestCopanyIssueRejectsUnknownLevelAndState(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}

	if _, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{
		Title: "bad level", Level: "SS",
	}); !errors.Is(err, domainerrors.ErrInvalidCopanyInput) {
		t.Fatalf("expected ErrInvalidCopanyInput for level, got %v", err)
	}

	issue, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{Title: "ok"})
	if err != nil {
		t.Fatalf("create issue failed: %v", err)
	}
	if _, err := module.Handler.UpdateIssueHandler(ctx, copany.ID, issue.ID, httptransport.UpdateIssueRequest{
		State: "archived",
	}); !errors.Is(err, domainerrors.ErrInvalidCopanyInput) {
		t.Fatalf("expected ErrInvalidCopanyInput for state, got %v", err)
	}
}

func TestCopanyListIssuesFilters(t *testing.T) {
	module := copanyservice.NewInMemoryModule(nil)
	ctx := context.Background()

	copany, err := module.Handler.CreateCopanyHandler(ctx, "founder", httptransport.CreateCopanyRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create copany failed: %v", err)
	}
	first, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{Title: "a", Assignee: "bob"})
	if err != nil {
		t.Fatalf("create issue failed: %v", err)
	}
	if _, err := module.Handler.CreateIssueHandler(ctx, copany.ID, httptransport.CreateIssueRequest{Title: "b", Assignee: "carol"}); err != nil {
		t.Fatalf("create issue failed: %v", err)
	}
	if _, err := module.Handler.UpdateIssueHandler(ctx, copany.ID, first.ID, httptransport.UpdateIssueRequest{State: "done"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	done, err := module.Handler.ListIssuesHandler(ctx, copany.ID, "done", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(done.Issues) != 1 || done.Issues[0].ID != first.ID {
		t.Fatalf("expected only the done issue, got %+v", done.Issues)
	}

	carol, err := module.Handler.ListIssuesHandler(ctx, copany.ID, "", "carol")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(carol.Issues) != 1 || carol.Issues[0].Assignee != "carol" {
		t.Fatalf("expected carol's issue, got %+v", carol.Issues)
	}
}
