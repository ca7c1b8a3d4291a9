package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(tenantID uuid.UUID, name string) *domain.Model {
	return &domain.Model{
		TenantID: tenantID,
		Name:     name,
		Prior:    map[string]float64{"A": 0.5, "B": 0.5},
		Likelihood: map[string]map[string]float64{
			"x": {"A": 0.9, "B": 0.1},
		},
	}
}

func TestInMemTenantStore(t *testing.T) {
	s := NewInMemTenantStore()
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "acme", APIKeyHash: "hash-1"}
	require.NoError(t, s.Create(ctx, tenant))
	assert.NotEqual(t, uuid.Nil, tenant.ID)

	got, err := s.GetByAPIKeyHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.ID)

	_, err = s.GetByAPIKeyHash(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Create(ctx, &domain.Tenant{Name: "dup", APIKeyHash: "hash-1"}), ErrConflict)
}

func TestInMemModelStore_CRUD(t *testing.T) {
	s := NewInMemModelStore()
	ctx := context.Background()
	tenantID := uuid.New()

	m := newTestModel(tenantID, "coin")
	require.NoError(t, s.Create(ctx, m))
	require.NotEqual(t, uuid.Nil, m.ID)

	got, err := s.GetByID(ctx, m.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "coin", got.Name)

	byName, err := s.GetByName(ctx, "coin", tenantID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, byName.ID)

	assert.ErrorIs(t, s.Create(ctx, newTestModel(tenantID, "coin")), ErrConflict)
	require.NoError(t, s.Create(ctx, newTestModel(uuid.New(), "coin")))
	require.NoError(t, s.Create(ctx, newTestModel(tenantID, "alpha")))

	list, err := s.List(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "coin", list[1].Name)

	require.NoError(t, s.Delete(ctx, m.ID, tenantID))
	_, err = s.GetByID(ctx, m.ID, tenantID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, m.ID, tenantID), ErrNotFound)
}

func TestInMemModelStore_TenantIsolation(t *testing.T) {
	s := NewInMemModelStore()
	ctx := context.Background()
	owner := uuid.New()

	m := newTestModel(owner, "private")
	require.NoError(t, s.Create(ctx, m))

	_, err := s.GetByID(ctx, m.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, m.ID, uuid.New()), ErrNotFound)
}

func TestInMemModelStore_CopiesModels(t *testing.T) {
	s := NewInMemModelStore()
	ctx := context.Background()
	tenantID := uuid.New()

	m := newTestModel(tenantID, "coin")
	require.NoError(t, s.Create(ctx, m))
	m.Prior["A"] = 0.99
	m.Likelihood["x"]["A"] = 0

	got, err := s.GetByID(ctx, m.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Prior["A"])
	assert.Equal(t, 0.9, got.Likelihood["x"]["A"])

	got.Prior["B"] = 0
	again, err := s.GetByID(ctx, m.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, again.Prior["B"])
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_a.sql", filepath.Base(files[0]))
	assert.Equal(t, "002_b.sql", filepath.Base(files[1]))
}
