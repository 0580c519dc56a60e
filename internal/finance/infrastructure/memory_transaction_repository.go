package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
)

// MemoryTransactionRepository keeps transactions in insertion order. Ties on
// CreateDate list in insertion order.
type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	Transactions []domain.Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{}
}

func (m *MemoryTransactionRepository) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	id = canonical(id)
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.Transactions {
		if t.ID == id {
			return copyTransaction(t), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *MemoryTransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Transactions {
		if existing.ID == t.ID {
			return apperrors.ErrConflict
		}
	}
	m.Transactions = append(m.Transactions, *copyTransaction(*t))
	return nil
}

func (m *MemoryTransactionRepository) Update(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Transactions {
		if m.Transactions[i].ID == t.ID {
			m.Transactions[i] = *copyTransaction(*t)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *MemoryTransactionRepository) Delete(_ context.Context, id string) error {
	id = canonical(id)
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Transactions {
		if m.Transactions[i].ID == id {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *MemoryTransactionRepository) FindAllByUserID(_ context.Context, userID string) ([]domain.Transaction, error) {
	userID = canonical(userID)
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Transaction{}
	for _, t := range m.Transactions {
		if t.UserID == userID {
			out = append(out, *copyTransaction(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreateDate.After(out[j].CreateDate)
	})
	return out, nil
}

// canonical matches the id spelling the SQL repository queries with.
func canonical(id string) string {
	if c, ok := database.CanonicalID(id); ok {
		return c
	}
	return id
}

func copyTransaction(t domain.Transaction) *domain.Transaction {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return &t
}
