package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Harshitk-cp/credence/internal/bayes"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMaxSessionsPerTenant = 100

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached for tenant")
	ErrNoEvidence      = errors.New("at least one evidence label is required")
)

// liveSession owns one BeliefStore. All access to the engine goes through mu,
// so concurrent requests against the same session are serialized.
type liveSession struct {
	mu sync.Mutex

	id        uuid.UUID
	tenantID  uuid.UUID
	modelID   uuid.UUID
	modelName string
	engine    *bayes.BeliefStore
	createdAt time.Time
	updatedAt time.Time
}

func (ls *liveSession) snapshot() *domain.Session {
	belief := ls.engine.CurrentBelief()
	top, p := ls.engine.MostLikely()
	return &domain.Session{
		ID:           ls.id,
		TenantID:     ls.tenantID,
		ModelID:      ls.modelID,
		ModelName:    ls.modelName,
		Belief:       domain.BeliefMap(belief),
		MostLikely:   string(top),
		LogOdds:      Logit(p),
		Verdict:      domain.ComputeVerdict(p),
		Observations: domain.EvidenceStrings(ls.engine.Observations()),
		CreatedAt:    ls.createdAt,
		UpdatedAt:    ls.updatedAt,
	}
}

// SessionService keeps live belief sessions in memory. Models are loaded from
// the model store when a session starts; after that the session holds its own
// engine and never touches storage again.
type SessionService struct {
	models domain.ModelStore
	logger *zap.Logger

	mu           sync.RWMutex
	sessions     map[uuid.UUID]*liveSession
	maxPerTenant int
	now          func() time.Time
}

func NewSessionService(ms domain.ModelStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		models:       ms,
		logger:       logger,
		sessions:     make(map[uuid.UUID]*liveSession),
		maxPerTenant: defaultMaxSessionsPerTenant,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetMaxPerTenant caps how many sessions one tenant may hold. Zero or less
// removes the cap.
func (s *SessionService) SetMaxPerTenant(n int) {
	s.mu.Lock()
	s.maxPerTenant = n
	s.mu.Unlock()
}

// Start opens a session on modelID with belief equal to the model's prior.
func (s *SessionService) Start(ctx context.Context, tenantID, modelID uuid.UUID) (*domain.Session, error) {
	model, err := s.models.GetByID(ctx, modelID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	engine, err := model.Engine()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	now := s.now()
	ls := &liveSession{
		id:        uuid.New(),
		tenantID:  tenantID,
		modelID:   model.ID,
		modelName: model.Name,
		engine:    engine,
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	if s.maxPerTenant > 0 && s.countLocked(tenantID) >= s.maxPerTenant {
		s.mu.Unlock()
		return nil, ErrSessionLimit
	}
	s.sessions[ls.id] = ls
	active := len(s.sessions)
	s.mu.Unlock()

	// A delete that ran after the first lookup has already swept the model's
	// sessions, so this one would outlive it.
	if _, err := s.models.GetByID(ctx, modelID, tenantID); err != nil {
		s.drop(ls.id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}

	sessionsActive.Set(float64(active))
	s.logger.Info("session started",
		zap.String("session_id", ls.id.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("model", model.Name))

	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.snapshot(), nil
}

func (s *SessionService) drop(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()
	sessionsActive.Set(float64(active))
}

func (s *SessionService) countLocked(tenantID uuid.UUID) int {
	n := 0
	for _, ls := range s.sessions {
		if ls.tenantID == tenantID {
			n++
		}
	}
	return n
}

func (s *SessionService) lookup(tenantID, id uuid.UUID) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[id]
	if !ok || ls.tenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

func (s *SessionService) Get(tenantID, id uuid.UUID) (*domain.Session, error) {
	ls, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.snapshot(), nil
}

// List returns snapshots of the tenant's sessions, oldest first.
func (s *SessionService) List(tenantID uuid.UUID) []domain.Session {
	s.mu.RLock()
	owned := make([]*liveSession, 0)
	for _, ls := range s.sessions {
		if ls.tenantID == tenantID {
			owned = append(owned, ls)
		}
	}
	s.mu.RUnlock()

	out := make([]domain.Session, 0, len(owned))
	for _, ls := range owned {
		ls.mu.Lock()
		out = append(out, *ls.snapshot())
		ls.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Observe folds labels into the session's belief in order. The batch is
// all-or-nothing: if any label fails, the belief is left as it was.
func (s *SessionService) Observe(tenantID, id uuid.UUID, labels []string) (*domain.Session, error) {
	if len(labels) == 0 {
		return nil, ErrNoEvidence
	}
	ls, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}

	evidence := make([]bayes.Evidence, len(labels))
	for i, l := range labels {
		evidence[i] = bayes.Evidence(l)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	start := time.Now()
	_, err = ls.engine.UpdateAll(evidence...)
	updateDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, bayes.ErrZeroEvidenceMass) {
			beliefUpdates.WithLabelValues(outcomeZeroMass).Inc()
			s.logger.Warn("evidence impossible under current belief",
				zap.String("session_id", id.String()),
				zap.Strings("labels", labels),
				zap.Error(err))
		} else {
			beliefUpdates.WithLabelValues(outcomeInvalid).Inc()
			s.logger.Warn("belief update rejected",
				zap.String("session_id", id.String()),
				zap.Strings("labels", labels),
				zap.Error(err))
		}
		return nil, err
	}

	ls.updatedAt = s.now()
	beliefUpdates.WithLabelValues(outcomeOK).Inc()

	snap := ls.snapshot()
	s.logger.Debug("belief updated",
		zap.String("session_id", id.String()),
		zap.Int("labels", len(labels)),
		zap.String("most_likely", snap.MostLikely),
		zap.String("verdict", string(snap.Verdict)))
	return snap, nil
}

// Reset returns the session's belief to the model prior and clears its
// observation history.
func (s *SessionService) Reset(tenantID, id uuid.UUID) (*domain.Session, error) {
	ls, err := s.lookup(tenantID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.engine.Reset()
	ls.updatedAt = s.now()
	return ls.snapshot(), nil
}

func (s *SessionService) Close(tenantID, id uuid.UUID) error {
	s.mu.Lock()
	ls, ok := s.sessions[id]
	if !ok || ls.tenantID != tenantID {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()

	sessionsActive.Set(float64(active))
	s.logger.Info("session closed", zap.String("session_id", id.String()))
	return nil
}

// CloseModel drops every session of tenantID running modelID.
func (s *SessionService) CloseModel(tenantID, modelID uuid.UUID) int {
	s.mu.Lock()
	closed := 0
	for id, ls := range s.sessions {
		if ls.tenantID == tenantID && ls.modelID == modelID {
			delete(s.sessions, id)
			closed++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	sessionsActive.Set(float64(active))
	return closed
}

// ExpireIdle removes sessions not updated within ttl and returns how many it
// removed.
func (s *SessionService) ExpireIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	expired := 0
	for id, ls := range s.sessions {
		ls.mu.Lock()
		idle := ls.updatedAt.Before(cutoff)
		ls.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	sessionsActive.Set(float64(active))
	return expired
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
