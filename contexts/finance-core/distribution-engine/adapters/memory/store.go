package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
	domainerrors "copany/contexts/finance-core/distribution-engine/domain/errors"
	"copany/contexts/finance-core/distribution-engine/ports"

	"github.com/google/uuid"
)

// AppRevenueEntry seeds externally reported income for a copany month.
type AppRevenueEntry struct {
	CopanyID string
	Month    string
	Amount   float64
	Currency string
}

type Seed struct {
	Owners       map[string]string // copany id -> owner user id
	Transactions []entities.Transaction
	Issues       []entities.Issue
	Contributors []entities.Contributor
	AppRevenue   []AppRevenueEntry
	Records      []entities.DistributionRecord
}

type outboxRow struct {
	event       ports.EventEnvelope
	publishedAt *time.Time
}

// Store backs every engine port in memory. Tests and the in-memory module
// wiring use it as repository, sources, locker, clock, and id generator at
// once.
type Store struct {
	mu sync.Mutex

	owners       map[string]string
	transactions []entities.Transaction
	issues       []entities.Issue
	contributors []entities.Contributor
	appRevenue   []AppRevenueEntry
	records      map[string]entities.DistributionRecord
	outbox       []outboxRow
	locks        map[string]bool

	// RateFn converts app revenue between currencies; identity when nil.
	RateFn func(from, to string) float64

	fixedNow time.Time
}

func NewStore(seed Seed) *Store {
	owners := make(map[string]string, len(seed.Owners))
	for copanyID, owner := range seed.Owners {
		owners[copanyID] = owner
	}
	records := make(map[string]entities.DistributionRecord, len(seed.Records))
	for _, record := range seed.Records {
		records[record.ID] = record
	}
	return &Store{
		owners:       owners,
		transactions: append([]entities.Transaction(nil), seed.Transactions...),
		issues:       append([]entities.Issue(nil), seed.Issues...),
		contributors: append([]entities.Contributor(nil), seed.Contributors...),
		appRevenue:   append([]AppRevenueEntry(nil), seed.AppRevenue...),
		records:      records,
		locks:        make(map[string]bool),
	}
}

// SetNow pins the store clock for deterministic period math in tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedNow = now
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fixedNow.IsZero() {
		return time.Now().UTC()
	}
	return s.fixedNow
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CopanyOwner(_ context.Context, copanyID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[copanyID]
	if !ok {
		return "", domainerrors.ErrCopanyNotFound
	}
	return owner, nil
}

func (s *Store) ListCopanyIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.owners))
	for copanyID := range s.owners {
		ids = append(ids, copanyID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ListConfirmedTransactions(_ context.Context, copanyID string, period entities.Period) ([]entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Transaction
	for _, tx := range s.transactions {
		if tx.CopanyID != copanyID || tx.Status != entities.TransactionStatusConfirmed {
			continue
		}
		if !period.Start.IsZero() && !period.Contains(tx.OccurredAt) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Store) ListAllTransactions(_ context.Context, copanyID string) ([]entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Transaction
	for _, tx := range s.transactions {
		if tx.CopanyID == copanyID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) ListCompletedIssues(_ context.Context, copanyID string) ([]entities.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Issue
	for _, issue := range s.issues {
		if issue.CopanyID == copanyID && issue.State == entities.IssueStateDone {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (s *Store) ListContributors(_ context.Context, copanyID string) ([]entities.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Contributor
	for _, contributor := range s.contributors {
		if contributor.CopanyID == copanyID {
			out = append(out, contributor)
		}
	}
	return out, nil
}

func (s *Store) ConvertedMonthlyIncome(_ context.Context, copanyID, month, currency string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, entry := range s.appRevenue {
		if entry.CopanyID != copanyID || entry.Month != month {
			continue
		}
		rate := 1.0
		if s.RateFn != nil && entry.Currency != currency {
			rate = s.RateFn(entry.Currency, currency)
		}
		total += entry.Amount * rate
	}
	return total, nil
}

func (s *Store) ListRevenueMonths(_ context.Context, copanyID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	for _, entry := range s.appRevenue {
		if entry.CopanyID == copanyID {
			seen[entry.Month] = struct{}{}
		}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months, nil
}

func (s *Store) ListRecords(_ context.Context, copanyID, month string) ([]entities.DistributionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.DistributionRecord
	for _, record := range s.records {
		if record.CopanyID != copanyID {
			continue
		}
		if month != "" && record.Month != month {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].ToUser < out[j].ToUser
	})
	return out, nil
}

func (s *Store) GetRecord(_ context.Context, copanyID, recordID string) (entities.DistributionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[recordID]
	if !ok || record.CopanyID != copanyID {
		return entities.DistributionRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) ReplaceForMonth(_ context.Context, copanyID, month string, records []entities.DistributionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, record := range s.records {
		if record.CopanyID == copanyID && record.Month == month {
			delete(s.records, id)
		}
	}
	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

func (s *Store) ConfirmRecord(_ context.Context, copanyID, recordID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[recordID]
	if !ok || record.CopanyID != copanyID {
		return domainerrors.ErrRecordNotFound
	}
	record.Status = entities.DistributionStatusConfirmed
	s.records[recordID] = record
	return nil
}

func (s *Store) Acquire(_ context.Context, copanyID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[copanyID] {
		return nil, domainerrors.ErrRecomputeLocked
	}
	s.locks[copanyID] = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locks, copanyID)
	}, nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{event: event})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.EventEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.EventEnvelope
	for _, row := range s.outbox {
		if row.publishedAt != nil {
			continue
		}
		out = append(out, row.event)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, eventID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.outbox {
		if s.outbox[idx].event.EventID == eventID {
			at := publishedAt
			s.outbox[idx].publishedAt = &at
			return nil
		}
	}
	return domainerrors.ErrRecordNotFound
}

// PendingOutboxCount is a test hook.
func (s *Store) PendingOutboxCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, row := range s.outbox {
		if row.publishedAt == nil {
			count++
		}
	}
	return count
}
