package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrModelNotFound    = errors.New("model not found")
	ErrModelConflict    = errors.New("model with this name already exists")
	ErrModelNameMissing = errors.New("name is required")
	ErrInvalidModel     = errors.New("invalid model")
)

type ModelService struct {
	store  domain.ModelStore
	logger *zap.Logger
}

func NewModelService(s domain.ModelStore, logger *zap.Logger) *ModelService {
	return &ModelService{store: s, logger: logger}
}

// Create validates m by building an engine from it, then stores it. The
// returned error wraps both ErrInvalidModel and the underlying bayes error.
func (s *ModelService) Create(ctx context.Context, m *domain.Model) error {
	if m.Name == "" {
		return ErrModelNameMissing
	}
	if _, err := m.Engine(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	if err := s.store.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrModelConflict
		}
		return err
	}

	s.logger.Info("model created",
		zap.String("model_id", m.ID.String()),
		zap.String("tenant_id", m.TenantID.String()),
		zap.String("name", m.Name),
		zap.Int("hypotheses", len(m.Prior)),
		zap.Int("evidence_labels", len(m.Likelihood)))
	return nil
}

func (s *ModelService) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Model, error) {
	m, err := s.store.GetByID(ctx, id, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ModelService) GetByName(ctx context.Context, name string, tenantID uuid.UUID) (*domain.Model, error) {
	m, err := s.store.GetByName(ctx, name, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ModelService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Model, error) {
	return s.store.List(ctx, tenantID)
}

func (s *ModelService) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	if err := s.store.Delete(ctx, id, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrModelNotFound
		}
		return err
	}
	return nil
}

// Import creates copies of models for tenantID. Models whose name is already
// taken are skipped. It returns how many were created.
func (s *ModelService) Import(ctx context.Context, tenantID uuid.UUID, models []domain.Model) (int, error) {
	created := 0
	for _, fixture := range models {
		m := fixture
		m.ID = uuid.Nil
		m.TenantID = tenantID

		err := s.Create(ctx, &m)
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrModelConflict):
			s.logger.Debug("model already exists, skipping import",
				zap.String("tenant_id", tenantID.String()),
				zap.String("name", m.Name))
		default:
			return created, fmt.Errorf("import %q: %w", m.Name, err)
		}
	}
	return created, nil
}
