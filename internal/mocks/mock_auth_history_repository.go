package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/codeclip-inc/lastly-auth/domain"
)

// MockAuthHistoryRepository implements domain.AuthHistoryRepository. Without
// overrides it keeps rows in memory.
type MockAuthHistoryRepository struct {
	CreateFunc       func(ctx context.Context, history *domain.AuthHistory) error
	CountBetweenFunc func(ctx context.Context, phone string, from, to time.Time) (int64, error)
	FindLatestFunc   func(ctx context.Context, phone string) (*domain.AuthHistory, error)

	mu   sync.Mutex
	rows []domain.AuthHistory
}

// NewMockAuthHistoryRepository creates a new MockAuthHistoryRepository
func NewMockAuthHistoryRepository() *MockAuthHistoryRepository {
	return &MockAuthHistoryRepository{}
}

// Create appends a row
func (m *MockAuthHistoryRepository) Create(ctx context.Context, history *domain.AuthHistory) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, history)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	history.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *history)
	return nil
}

// CountBetween counts rows for phone inside [from, to]
func (m *MockAuthHistoryRepository) CountBetween(ctx context.Context, phone string, from, to time.Time) (int64, error) {
	if m.CountBetweenFunc != nil {
		return m.CountBetweenFunc(ctx, phone, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.PhoneNumber == phone && !r.CreateDate.Before(from) && !r.CreateDate.After(to) {
			n++
		}
	}
	return n, nil
}

// FindLatest returns the newest row for phone
func (m *MockAuthHistoryRepository) FindLatest(ctx context.Context, phone string) (*domain.AuthHistory, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, phone)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].PhoneNumber == phone {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, domain.ErrAuthHistoryNotFound
}

// Rows returns a copy of the stored rows (test helper)
func (m *MockAuthHistoryRepository) Rows() []domain.AuthHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AuthHistory(nil), m.rows...)
}

// Compile-time interface compliance verification
var _ domain.AuthHistoryRepository = (*MockAuthHistoryRepository)(nil)
