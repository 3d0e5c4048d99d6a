package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"copany/contexts/finance-core/ledger-service/domain/entities"
	domainerrors "copany/contexts/finance-core/ledger-service/domain/errors"
	"copany/contexts/finance-core/ledger-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	transactions map[string]entities.Transaction
	appRevenue   map[string]entities.AppRevenueEntry // keyed copany|month|source

	fixedNow time.Time
}

func NewStore(seed []entities.Transaction) *Store {
	transactions := make(map[string]entities.Transaction, len(seed))
	for _, tx := range seed {
		transactions[tx.ID] = tx
	}
	return &Store{
		transactions: transactions,
		appRevenue:   make(map[string]entities.AppRevenueEntry),
	}
}

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

func (s *Store) CreateTransaction(_ context.Context, tx entities.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

func (s *Store) GetTransaction(_ context.Context, copanyID, transactionID string) (entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[transactionID]
	if !ok || tx.CopanyID != copanyID {
		return entities.Transaction{}, domainerrors.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx entities.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.ID]; !ok {
		return domainerrors.ErrTransactionNotFound
	}
	s.transactions[tx.ID] = tx
	return nil
}

func (s *Store) ListTransactions(_ context.Context, copanyID string, filter ports.TransactionFilter) ([]entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Transaction
	for _, tx := range s.transactions {
		if tx.CopanyID != copanyID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.Month != "" && tx.OccurredAt.UTC().Format("2006-01") != filter.Month {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

func (s *Store) UpsertAppRevenue(_ context.Context, entry entities.AppRevenueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entry.CopanyID + "|" + entry.Month + "|" + entry.Source
	if existing, ok := s.appRevenue[key]; ok {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}
	s.appRevenue[key] = entry
	return nil
}

func (s *Store) ListAppRevenue(_ context.Context, copanyID, month string) ([]entities.AppRevenueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.AppRevenueEntry
	for _, entry := range s.appRevenue {
		if entry.CopanyID != copanyID {
			continue
		}
		if month != "" && entry.Month != month {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}
