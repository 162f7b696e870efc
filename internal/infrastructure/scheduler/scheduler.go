// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrJobNotFound is returned by RunNow for an unregistered job
	ErrJobNotFound = errors.New("job not found")
	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")
)

// JobFunc is one run of a job
type JobFunc func(ctx context.Context) error

// Config holds scheduler settings
type Config struct {
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{JobTimeout: 5 * time.Minute, Location: time.UTC}
}

// Scheduler runs named jobs on cron specs. Overlapping runs of the same job
// are skipped and panics are recovered.
type Scheduler struct {
	cron   *cron.Cron
	config Config
	logger *zap.Logger

	mu      sync.Mutex
	jobs    map[string]JobFunc
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a stopped scheduler
func New(cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultConfig().JobTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		config: cfg,
		logger: logger,
		jobs:   make(map[string]JobFunc),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a job. spec accepts standard five-field expressions and
// descriptors such as @hourly or @every 10m.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.jobs[name] = fn
	s.logger.Info("Job registered", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// RunNow runs a registered job synchronously
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	fn, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(name, fn)
}

func (s *Scheduler) run(name string, fn JobFunc) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	fields := []zap.Field{zap.String("job", name), zap.Duration("duration", time.Since(start))}
	if err != nil {
		s.logger.Error("Job failed", append(fields, zap.Error(err))...)
		return err
	}
	s.logger.Info("Job completed", fields...)
	return nil
}

// Start begins firing jobs on their schedules
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels running jobs and waits for them to return, or for ctx to
// expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
