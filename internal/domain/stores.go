package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Tenant, error)
}

type ModelStore interface {
	Create(ctx context.Context, m *Model) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Model, error)
	GetByName(ctx context.Context, name string, tenantID uuid.UUID) (*Model, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Model, error)
	Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}
