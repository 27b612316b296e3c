package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Task is one independent unit of scheduled work.
type Task func(ctx context.Context) error

// Scheduler repeats a task on a cron expression. Ticks that arrive while the
// previous run is still going are skipped.
type Scheduler struct {
	Cron   *cron.Cron
	Ctx    context.Context
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
	runs    int
}

// NewScheduler creates a new Scheduler. Expressions take a leading seconds field.
func NewScheduler(ctx context.Context) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Ctx:    ctx,
		logger: log.With().Str("component", "scheduler").Logger(),
	}
}

// Register runs task on the cron expression expr.
func (s *Scheduler) Register(expr string, task Task) error {
	if _, err := s.Cron.AddFunc(expr, func() { s.RunNow(task) }); err != nil {
		return fmt.Errorf("register task %q: %w", expr, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// Runs returns how many task runs have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// RunNow executes task immediately unless a run is already in progress.
func (s *Scheduler) RunNow(task Task) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("previous run still in progress, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.runs++
		s.mu.Unlock()
	}()

	if err := task(s.Ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled run failed")
	}
}
