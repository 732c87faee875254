package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs synchronization passes on a fixed interval for deployments
// without an external cron. The run lock makes it safe to enable alongside
// the HTTP trigger or in several replicas at once.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *slog.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// NewScheduler creates a Scheduler driving the orchestrator every interval
func NewScheduler(orchestrator *Orchestrator, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background pass loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("sync scheduler started", slog.Duration("interval", s.interval))
}

// Stop gracefully stops the loop, waiting for an in-flight pass
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

// IsRunning reports whether the loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.orchestrator.RunPass(context.Background()); err != nil {
				s.logger.Error("scheduled sync pass failed", slog.String("error", err.Error()))
			}
		case <-s.stopCh:
			return
		}
	}
}
