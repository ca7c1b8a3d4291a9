package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
)

// InMemTenantStore is a process-local TenantStore used when no database is
// configured.
type InMemTenantStore struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

func NewInMemTenantStore() *InMemTenantStore {
	return &InMemTenantStore{tenants: make(map[string]*domain.Tenant)}
}

func (s *InMemTenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.APIKeyHash]; exists {
		return ErrConflict
	}
	now := time.Now().UTC()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now
	stored := *t
	s.tenants[t.APIKeyHash] = &stored
	return nil
}

func (s *InMemTenantStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[apiKeyHash]
	if !ok {
		return nil, ErrNotFound
	}
	out := *t
	return &out, nil
}

// InMemModelStore is a process-local ModelStore. Stored models are deep
// copied in and out so callers cannot mutate them.
type InMemModelStore struct {
	mu     sync.RWMutex
	models map[uuid.UUID]*domain.Model
}

func NewInMemModelStore() *InMemModelStore {
	return &InMemModelStore{models: make(map[uuid.UUID]*domain.Model)}
}

func copyModel(m *domain.Model) *domain.Model {
	out := *m
	out.Prior = make(map[string]float64, len(m.Prior))
	for h, p := range m.Prior {
		out.Prior[h] = p
	}
	out.Likelihood = make(map[string]map[string]float64, len(m.Likelihood))
	for e, row := range m.Likelihood {
		inner := make(map[string]float64, len(row))
		for h, p := range row {
			inner[h] = p
		}
		out.Likelihood[e] = inner
	}
	return &out
}

func (s *InMemModelStore) Create(ctx context.Context, m *domain.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.models {
		if existing.TenantID == m.TenantID && existing.Name == m.Name {
			return ErrConflict
		}
	}
	now := time.Now().UTC()
	m.ID = uuid.New()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.models[m.ID] = copyModel(m)
	return nil
}

func (s *InMemModelStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[id]
	if !ok || m.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return copyModel(m), nil
}

func (s *InMemModelStore) GetByName(ctx context.Context, name string, tenantID uuid.UUID) (*domain.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.models {
		if m.TenantID == tenantID && m.Name == name {
			return copyModel(m), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemModelStore) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Model
	for _, m := range s.models {
		if m.TenantID == tenantID {
			out = append(out, *copyModel(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemModelStore) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[id]
	if !ok || m.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.models, id)
	return nil
}
