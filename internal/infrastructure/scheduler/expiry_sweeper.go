package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpirySweep suspends stores whose paid period ran out.
type ExpirySweep interface {
	SweepExpired(ctx context.Context, graceDays int) (int, error)
}

// ExpirySweeperConfig holds configuration for the daily expiry sweep
type ExpirySweeperConfig struct {
	// Hour is the hour of day (24h clock) the sweep runs at
	Hour int

	// GraceDays is how many days past the subscription end a store keeps working
	GraceDays int

	// CheckInterval is how often to check whether it is time to run
	CheckInterval time.Duration
}

// DefaultExpirySweeperConfig returns default sweep configuration
func DefaultExpirySweeperConfig() ExpirySweeperConfig {
	return ExpirySweeperConfig{
		Hour:          3, // 3am, before the stores open
		GraceDays:     3,
		CheckInterval: time.Minute,
	}
}

// ExpirySweeper runs the subscription expiry sweep once per day.
type ExpirySweeper struct {
	config ExpirySweeperConfig
	sweep  ExpirySweep
	logger *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(config ExpirySweeperConfig, sweep ExpirySweep, logger *zap.Logger) *ExpirySweeper {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &ExpirySweeper{
		config: config,
		sweep:  sweep,
		logger: logger,
	}
}

// Start starts the background loop. Calling Start twice is a no-op.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("expiry sweeper started",
		zap.Int("hour", s.config.Hour),
		zap.Int("grace_days", s.config.GraceDays),
	)
}

// Stop stops the loop and waits for an in-flight sweep to finish.
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ExpirySweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.maybeRun(ctx, now)
		}
	}
}

// maybeRun fires the sweep once per calendar day at or after the configured hour.
func (s *ExpirySweeper) maybeRun(ctx context.Context, now time.Time) {
	if now.Hour() < s.config.Hour {
		return
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	if s.lastRunDate == today {
		s.mu.Unlock()
		return
	}
	s.lastRunDate = today
	s.mu.Unlock()

	suspended, err := s.sweep.SweepExpired(ctx, s.config.GraceDays)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("expiry sweep finished", zap.Int("suspended", suspended))
}

// RunOnce triggers the sweep immediately, bypassing the schedule.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	return s.sweep.SweepExpired(ctx, s.config.GraceDays)
}
