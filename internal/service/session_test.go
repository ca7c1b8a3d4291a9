package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/credence/internal/bayes"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupSessions(t *testing.T) (*SessionService, uuid.UUID, uuid.UUID) {
	t.Helper()
	models := newMockModelStore()
	tenantID := uuid.New()
	m := diseaseModel(tenantID)
	if err := models.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed model: %v", err)
	}
	return NewSessionService(models, zap.NewNop()), tenantID, m.ID
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSessionService_StartUsesPrior(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)

	sess, err := s.Start(context.Background(), tenantID, modelID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !near(sess.Belief["Disease"], 0.01) || !near(sess.Belief["No Disease"], 0.99) {
		t.Fatalf("expected prior belief, got %v", sess.Belief)
	}
	if sess.MostLikely != "No Disease" {
		t.Fatalf("expected most likely No Disease, got %q", sess.MostLikely)
	}
	if !near(sess.LogOdds, math.Log(99)) {
		t.Fatalf("expected log odds ln(99), got %v", sess.LogOdds)
	}
	if sess.Verdict != domain.VerdictLikely {
		t.Fatalf("expected verdict likely, got %q", sess.Verdict)
	}
	if len(sess.Observations) != 0 {
		t.Fatalf("expected no observations, got %v", sess.Observations)
	}
	if s.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Count())
	}
}

func TestSessionService_StartUnknownModel(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)

	if _, err := s.Start(context.Background(), tenantID, uuid.New()); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if _, err := s.Start(context.Background(), uuid.New(), modelID); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound for other tenant, got %v", err)
	}
}

func TestSessionService_Observe(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	sess, _ := s.Start(context.Background(), tenantID, modelID)

	got, err := s.Observe(tenantID, sess.ID, []string{"Positive"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := 0.0095 / 0.059
	if !near(got.Belief["Disease"], want) {
		t.Fatalf("expected P(Disease)=%v, got %v", want, got.Belief["Disease"])
	}
	if len(got.Observations) != 1 || got.Observations[0] != "Positive" {
		t.Fatalf("expected observations [Positive], got %v", got.Observations)
	}

	got, err = s.Observe(tenantID, sess.ID, []string{"Positive", "Positive"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Observations) != 3 {
		t.Fatalf("expected 3 observations, got %v", got.Observations)
	}
	if got.MostLikely != "Disease" {
		t.Fatalf("expected Disease after three positives, got %q", got.MostLikely)
	}
}

func TestSessionService_ObserveErrorsLeaveBelief(t *testing.T) {
	models := newMockModelStore()
	tenantID := uuid.New()
	m := &domain.Model{
		TenantID: tenantID,
		Name:     "coin",
		Prior:    map[string]float64{"Fair": 0.5, "TwoHeaded": 0.5},
		Likelihood: map[string]map[string]float64{
			"Heads": {"Fair": 0.5, "TwoHeaded": 1},
			"Tails": {"Fair": 0.5, "TwoHeaded": 0},
			"Edge":  {"Fair": 0, "TwoHeaded": 0},
		},
	}
	if err := models.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed model: %v", err)
	}
	s := NewSessionService(models, zap.NewNop())
	sess, _ := s.Start(context.Background(), tenantID, m.ID)

	before, err := s.Observe(tenantID, sess.ID, []string{"Heads"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		labels  []string
		wantErr error
	}{
		{"impossible evidence", []string{"Edge"}, bayes.ErrZeroEvidenceMass},
		{"impossible later in batch", []string{"Tails", "Heads", "Edge"}, bayes.ErrZeroEvidenceMass},
		{"unknown label", []string{"Sideways"}, bayes.ErrZeroEvidenceMass},
		{"empty batch", nil, ErrNoEvidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Observe(tenantID, sess.ID, tt.labels)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			after, err := s.Get(tenantID, sess.ID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !near(after.Belief["Fair"], before.Belief["Fair"]) {
				t.Fatalf("belief changed after failed update: %v -> %v", before.Belief, after.Belief)
			}
			if len(after.Observations) != 1 {
				t.Fatalf("observations changed after failed update: %v", after.Observations)
			}
		})
	}
}

func TestSessionService_Reset(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	sess, _ := s.Start(context.Background(), tenantID, modelID)

	if _, err := s.Observe(tenantID, sess.ID, []string{"Positive", "Positive"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := s.Reset(tenantID, sess.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !near(got.Belief["Disease"], 0.01) {
		t.Fatalf("expected prior after reset, got %v", got.Belief)
	}
	if len(got.Observations) != 0 {
		t.Fatalf("expected observations cleared, got %v", got.Observations)
	}
}

func TestSessionService_TenantIsolation(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	sess, _ := s.Start(context.Background(), tenantID, modelID)
	other := uuid.New()

	if _, err := s.Get(other, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := s.Observe(other, sess.ID, []string{"Positive"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := s.Close(other, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if len(s.List(other)) != 0 {
		t.Fatal("expected no sessions for other tenant")
	}
	if len(s.List(tenantID)) != 1 {
		t.Fatal("expected one session for owner")
	}
}

func TestSessionService_Close(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	sess, _ := s.Start(context.Background(), tenantID, modelID)

	if err := s.Close(tenantID, sess.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := s.Get(tenantID, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after close, got %v", err)
	}
	if err := s.Close(tenantID, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second close, got %v", err)
	}
}

func TestSessionService_CloseModel(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	for i := 0; i < 3; i++ {
		if _, err := s.Start(context.Background(), tenantID, modelID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if n := s.CloseModel(tenantID, modelID); n != 3 {
		t.Fatalf("expected 3 closed, got %d", n)
	}
	if s.Count() != 0 {
		t.Fatalf("expected 0 sessions, got %d", s.Count())
	}
}

// deletingModelStore deletes the model right after the first lookup returns
// it, the way a concurrent DELETE /v1/models/{id} would.
type deletingModelStore struct {
	*mockModelStore
	onDelete func(tenantID, modelID uuid.UUID)
	fired    bool
}

func (m *deletingModelStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Model, error) {
	model, err := m.mockModelStore.GetByID(ctx, id, tenantID)
	if err == nil && !m.fired {
		m.fired = true
		_ = m.mockModelStore.Delete(ctx, id, tenantID)
		m.onDelete(tenantID, id)
	}
	return model, err
}

func TestSessionService_StartRacingModelDelete(t *testing.T) {
	models := &deletingModelStore{mockModelStore: newMockModelStore()}
	tenantID := uuid.New()
	m := diseaseModel(tenantID)
	if err := models.Create(context.Background(), m); err != nil {
		t.Fatalf("failed to seed model: %v", err)
	}
	s := NewSessionService(models, zap.NewNop())
	closed := -1
	models.onDelete = func(tenantID, modelID uuid.UUID) {
		closed = s.CloseModel(tenantID, modelID)
	}

	if _, err := s.Start(context.Background(), tenantID, m.ID); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected delete to find no sessions yet, got %d", closed)
	}
	if s.Count() != 0 {
		t.Fatalf("expected no session left on deleted model, got %d", s.Count())
	}
	if len(s.List(tenantID)) != 0 {
		t.Fatal("expected empty session list")
	}
}

func TestSessionService_Limit(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	s.SetMaxPerTenant(2)

	for i := 0; i < 2; i++ {
		if _, err := s.Start(context.Background(), tenantID, modelID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if _, err := s.Start(context.Background(), tenantID, modelID); !errors.Is(err, ErrSessionLimit) {
		t.Fatalf("expected ErrSessionLimit, got %v", err)
	}

	s.SetMaxPerTenant(0)
	if _, err := s.Start(context.Background(), tenantID, modelID); err != nil {
		t.Fatalf("expected no error without limit, got %v", err)
	}
}

func TestSessionService_ExpireIdle(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = clock.Now

	stale, _ := s.Start(context.Background(), tenantID, modelID)
	clock.Advance(20 * time.Minute)
	fresh, _ := s.Start(context.Background(), tenantID, modelID)
	clock.Advance(15 * time.Minute)

	if n := s.ExpireIdle(30 * time.Minute); n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}
	if _, err := s.Get(tenantID, stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session gone, got %v", err)
	}
	if _, err := s.Get(tenantID, fresh.ID); err != nil {
		t.Fatalf("expected fresh session kept, got %v", err)
	}

	// Observing refreshes the idle clock.
	clock.Advance(10 * time.Minute)
	if _, err := s.Observe(tenantID, fresh.ID, []string{"Negative"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	clock.Advance(25 * time.Minute)
	if n := s.ExpireIdle(30 * time.Minute); n != 0 {
		t.Fatalf("expected 0 expired, got %d", n)
	}
}

func TestSessionService_ConcurrentObserve(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	sess, _ := s.Start(context.Background(), tenantID, modelID)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			label := "Positive"
			if i%2 == 1 {
				label = "Negative"
			}
			if _, err := s.Observe(tenantID, sess.ID, []string{label}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.Get(tenantID, sess.ID)
	if len(got.Observations) != 20 {
		t.Fatalf("expected 20 observations, got %d", len(got.Observations))
	}
	// Ten positives and ten negatives cancel out: P(+|D)=P(-|not D).
	if !near(got.Belief["Disease"], 0.01) {
		t.Fatalf("expected belief back at prior, got %v", got.Belief)
	}
}

func TestExpirerService_Run(t *testing.T) {
	s, tenantID, modelID := setupSessions(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = clock.Now

	if _, err := s.Start(context.Background(), tenantID, modelID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	e := NewExpirerService(s, zap.NewNop())
	e.SetTTL(time.Minute)

	if n := e.run(); n != 0 {
		t.Fatalf("expected nothing expired yet, got %d", n)
	}
	clock.Advance(2 * time.Minute)
	if n := e.run(); n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}
}

func TestExpirerService_StartStop(t *testing.T) {
	s, _, _ := setupSessions(t)
	e := NewExpirerService(s, zap.NewNop())
	e.SetInterval(10 * time.Millisecond)
	e.Start()
	time.Sleep(30 * time.Millisecond)
	e.Stop()
}
