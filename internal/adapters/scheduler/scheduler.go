// Package scheduler runs periodic maintenance jobs on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/rendezvous/pkg/logger"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with context-aware jobs.
type Scheduler struct {
	c       *cron.Cron
	spec    string
	logger  logger.Logger
	timeout time.Duration
	ctx     context.Context //nolint:containedctx // parent for every job run
	cancel  context.CancelFunc
}

// Option configures Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJobTimeout bounds each job run.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a scheduler that runs job on spec. An empty spec yields a
// scheduler with nothing to run.
func New(spec, name string, job Job, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		c:       cron.New(),
		spec:    spec,
		logger:  logger.Nop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("scheduler")
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if spec == "" {
		return s, nil
	}
	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error(ctx, "scheduled job failed", logger.String("job", name), logger.Error(err))
			return
		}
		s.logger.Debug(ctx, "scheduled job done", logger.String("job", name), logger.Duration("took", time.Since(start)))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %s on %q: %w", name, spec, err)
	}
	return s, nil
}

// Enabled reports whether a job is scheduled.
func (s *Scheduler) Enabled() bool { return s.spec != "" }

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	if !s.Enabled() {
		return
	}
	s.logger.Info(s.ctx, "starting scheduler", logger.String("cron", s.spec))
	s.c.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.c.Stop().Done()
}
