package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrJobNotFound = errors.New("cron job not found")
var ErrJobRunning = errors.New("cron job already running")

// JobFunc does one unit of scheduled work.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc
	running  atomic.Bool
}

// Scheduler runs registered jobs on fixed intervals. A job never overlaps
// itself: a tick that arrives while the previous run is still busy is skipped.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*job
	order   []string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; !exists {
		s.order = append(s.order, name)
	}
	s.jobs[name] = &job{name: name, interval: interval, fn: fn}
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, name := range s.order {
		s.wg.Add(1)
		go s.loop(s.jobs[name])
	}
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the shared context and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.execute(s.ctx, j)

	for {
		select {
		case <-s.ctx.Done():
			slog.Debug("Cron job stopping", "name", j.name)
			return
		case <-ticker.C:
			s.execute(s.ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) error {
	if !j.running.CompareAndSwap(false, true) {
		slog.Warn("Cron job still running, skipping tick", "name", j.name)
		return ErrJobRunning
	}
	defer j.running.Store(false)

	start := time.Now()
	err := j.fn(ctx)
	if err != nil {
		slog.Error("Cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
		return err
	}
	slog.Debug("Cron job completed", "name", j.name, "duration", time.Since(start))
	return nil
}

// Run executes a single job immediately in the caller's goroutine. It shares
// the overlap guard with the ticker loop.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.execute(ctx, j)
}

// RunOnce runs every job once in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	names := append([]string(nil), s.order...)
	s.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := s.Run(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// IsRunning reports whether the named job is executing right now.
func (s *Scheduler) IsRunning(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[name]
	return ok && j.running.Load()
}
