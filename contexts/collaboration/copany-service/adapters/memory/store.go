package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"copany/contexts/collaboration/copany-service/domain/entities"
	domainerrors "copany/contexts/collaboration/copany-service/domain/errors"
	"copany/contexts/collaboration/copany-service/ports"
)

type contributorKey struct {
	copanyID string
	userID   string
}

// Store backs the copany service with in-process maps. It implements the
// repository, clock, and ID generator ports so tests run without postgres.
type Store struct {
	mu           sync.RWMutex
	copanies     map[string]entities.Copany
	contributors map[contributorKey]entities.Contributor
	issues       map[string]entities.Issue
	now          time.Time
	nextID       int
}

func NewStore() *Store {
	return &Store{
		copanies:     make(map[string]entities.Copany),
		contributors: make(map[contributorKey]entities.Contributor),
		issues:       make(map[string]entities.Issue),
	}
}

// SetNow pins the clock for deterministic tests. Zero restores wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("copany-mem-%06d", s.nextID), nil
}

func (s *Store) CreateCopany(_ context.Context, copany entities.Copany) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.copanies[copany.ID]; ok {
		return domainerrors.ErrCopanyExists
	}
	s.copanies[copany.ID] = copany
	return nil
}

func (s *Store) GetCopany(_ context.Context, copanyID string) (entities.Copany, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copany, ok := s.copanies[copanyID]
	if !ok {
		return entities.Copany{}, domainerrors.ErrCopanyNotFound
	}
	return copany, nil
}

func (s *Store) ListCopanies(_ context.Context) ([]entities.Copany, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Copany, 0, len(s.copanies))
	for _, copany := range s.copanies {
		out = append(out, copany)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddContributor(_ context.Context, contributor entities.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := contributorKey{copanyID: contributor.CopanyID, userID: contributor.UserID}
	if _, ok := s.contributors[key]; ok {
		return domainerrors.ErrContributorExists
	}
	s.contributors[key] = contributor
	return nil
}

func (s *Store) ListContributors(_ context.Context, copanyID string) ([]entities.Contributor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Contributor, 0)
	for key, contributor := range s.contributors {
		if key.copanyID == copanyID {
			out = append(out, contributor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Store) CreateIssue(_ context.Context, issue entities.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues[issue.ID] = issue
	return nil
}

func (s *Store) GetIssue(_ context.Context, copanyID, issueID string) (entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[issueID]
	if !ok || issue.CopanyID != copanyID {
		return entities.Issue{}, domainerrors.ErrIssueNotFound
	}
	return issue, nil
}

func (s *Store) UpdateIssue(_ context.Context, issue entities.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.issues[issue.ID]
	if !ok || current.CopanyID != issue.CopanyID {
		return domainerrors.ErrIssueNotFound
	}
	s.issues[issue.ID] = issue
	return nil
}

func (s *Store) ListIssues(_ context.Context, copanyID string, filter ports.IssueFilter) ([]entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Issue, 0)
	for _, issue := range s.issues {
		if issue.CopanyID != copanyID {
			continue
		}
		if filter.State != "" && issue.State != filter.State {
			continue
		}
		if filter.Assignee != "" && issue.Assignee != filter.Assignee {
			continue
		}
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
