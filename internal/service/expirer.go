package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultExpirerInterval = 1 * time.Minute
	defaultSessionTTL      = 30 * time.Minute
)

// ExpirerService periodically drops sessions that have been idle longer than
// the TTL.
type ExpirerService struct {
	sessions *SessionService
	logger   *zap.Logger

	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(sessions *SessionService, logger *zap.Logger) *ExpirerService {
	return &ExpirerService{
		sessions: sessions,
		logger:   logger,
		ttl:      defaultSessionTTL,
		interval: defaultExpirerInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *ExpirerService) SetTTL(d time.Duration) {
	s.ttl = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("session expirer started",
			zap.Duration("interval", s.interval),
			zap.Duration("ttl", s.ttl))

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopCh:
				s.logger.Info("session expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ExpirerService) run() int {
	expired := s.sessions.ExpireIdle(s.ttl)
	if expired > 0 {
		s.logger.Info("expired idle sessions",
			zap.Int("count", expired),
			zap.Int("remaining", s.sessions.Count()))
	}
	return expired
}
