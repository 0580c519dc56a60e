package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/sebuszqo/FinanceControl/internal/apperrors"
	"github.com/sebuszqo/FinanceControl/internal/database"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (m *MemoryRepository) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return fmt.Errorf("user with username '%s' already exists: %w", u.Username, apperrors.ErrConflict)
		}
	}
	m.users[u.ID] = copyUser(*u)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	if c, ok := database.CanonicalID(id); ok {
		id = c
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	found := copyUser(u)
	return &found, nil
}

func (m *MemoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			found := copyUser(u)
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *MemoryRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *MemoryRepository) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.users[u.ID] = copyUser(*u)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	if c, ok := database.CanonicalID(id); ok {
		id = c
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func copyUser(u User) User {
	if u.Email != nil {
		email := *u.Email
		u.Email = &email
	}
	return u
}
