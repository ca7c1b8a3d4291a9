package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModelStore keeps model definitions in Postgres. Prior and likelihood are
// jsonb columns.
type ModelStore struct {
	db *pgxpool.Pool
}

func NewModelStore(db *pgxpool.Pool) *ModelStore {
	return &ModelStore{db: db}
}

const modelColumns = `id, tenant_id, name, description, prior, likelihood, created_at, updated_at`

func scanModel(row pgx.Row) (*domain.Model, error) {
	m := &domain.Model{}
	err := row.Scan(&m.ID, &m.TenantID, &m.Name, &m.Description, &m.Prior, &m.Likelihood, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ModelStore) Create(ctx context.Context, m *domain.Model) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO models (tenant_id, name, description, prior, likelihood)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		m.TenantID, m.Name, m.Description, m.Prior, m.Likelihood,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *ModelStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Model, error) {
	return scanModel(s.db.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM models WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	))
}

func (s *ModelStore) GetByName(ctx context.Context, name string, tenantID uuid.UUID) (*domain.Model, error) {
	return scanModel(s.db.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM models WHERE name = $1 AND tenant_id = $2`,
		name, tenantID,
	))
}

func (s *ModelStore) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Model, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+modelColumns+` FROM models WHERE tenant_id = $1 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var models []domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, *m)
	}
	return models, rows.Err()
}

func (s *ModelStore) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM models WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
