// Package service composes storage, rendering and background work into the
// operations served by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/mq/queue"
	"github.com/okian/rendezvous/internal/adapters/mq/worker"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/adapters/scheduler"
	"github.com/okian/rendezvous/internal/adapters/tts"
	"github.com/okian/rendezvous/internal/domain/dedupe"
	"github.com/okian/rendezvous/internal/domain/session"
	"github.com/okian/rendezvous/pkg/logger"
	"github.com/okian/rendezvous/pkg/metrics"
)

// Service implements the API dependencies for the festival site.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	blobs   blobstore.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	sched   *scheduler.Scheduler
	issuer  *session.Issuer
	creds   *session.Credentials
	speech  *tts.Client

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	standingsCron string
	now           func() time.Time

	// State
	started   bool
	stopped   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithBlobs sets the binary store.
func WithBlobs(blobs blobstore.Store) Option {
	return func(s *Service) { s.blobs = blobs }
}

// WithSessionIssuer sets the admin token issuer.
func WithSessionIssuer(issuer *session.Issuer) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithCredentials sets the admin credentials.
func WithCredentials(creds *session.Credentials) Option {
	return func(s *Service) { s.creds = creds }
}

// WithTTS sets the text-to-speech client.
func WithTTS(c *tts.Client) Option {
	return func(s *Service) { s.speech = c }
}

// WithPosterWorkers sets the number of poster worker goroutines.
func WithPosterWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending poster jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStandingsCron sets the cron spec of the standings refresh. Empty
// disables it.
func WithStandingsCron(spec string) Option {
	return func(s *Service) { s.standingsCron = spec }
}

// WithClock overrides the time source used for session checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service. Store and blobs must be supplied before Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     1000,
		dedupeSize:    10000,
		standingsCron: "@every 1m",
		now:           time.Now,
		logger:        logger.Nop(),
		speech:        tts.New(""),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start launches the poster workers and the standings scheduler.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	if s.store == nil || s.blobs == nil {
		return fmt.Errorf("%w: store and blob store are required", ErrNotConfigured)
	}

	s.logger.Info(ctx, "starting festival service...")

	s.pool = worker.NewPool(s.workerCount, s.queue, s, worker.WithPoolLogger(s.logger))
	s.pool.Start(ctx)

	sched, err := scheduler.New(s.standingsCron, "standings", s.RefreshStandings,
		scheduler.WithLogger(s.logger))
	if err != nil {
		_ = s.pool.Shutdown(ctx)
		return err
	}
	s.sched = sched
	s.sched.Start()

	if err := s.RefreshStandings(ctx); err != nil {
		s.logger.Warn(ctx, "initial standings refresh failed", logger.Error(err))
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "festival service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("standingsCron", s.standingsCron),
	)
	return nil
}

// Stop drains background work and closes the queue and the stores. It is
// terminal: a later Start returns ErrStopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping festival service...")

	if s.sched != nil {
		s.sched.Stop()
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "poster workers did not stop cleanly", logger.Error(err))
		}
	}
	if err := s.blobs.Close(); err != nil {
		s.logger.Error(ctx, "closing blob store", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing store", logger.Error(err))
	}

	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "festival service stopped")
}

// Started reports whether Start has run.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Stats is the admin dashboard summary.
type Stats struct {
	Started          bool                             `json:"started"`
	Uptime           string                           `json:"uptime,omitempty"`
	Records          repository.Counts                `json:"records"`
	Participants     int                              `json:"participants"`
	Workers          int                              `json:"workers"`
	QueueLength      int                              `json:"queue_length"`
	QueueCapacity    int                              `json:"queue_capacity"`
	PostersProcessed int64                            `json:"posters_processed"`
	PostersFailed    int64                            `json:"posters_failed"`
	IdempotencyKeys  int64                            `json:"idempotency_keys"`
	Blobs            map[string]blobstore.BucketStats `json:"blobs"`
	Goroutines       int                              `json:"goroutines"`
	HeapBytes        uint64                           `json:"heap_bytes"`
}

// GetStats returns record counts and runtime figures.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:         s.started,
		QueueLength:     s.queue.Len(ctx),
		QueueCapacity:   s.queueSize,
		IdempotencyKeys: s.deduper.Size(),
		Goroutines:      runtime.NumGoroutine(),
	}
	if s.started {
		st.Uptime = s.now().Sub(s.startedAt).Round(time.Second).String()
	}
	if s.pool != nil {
		st.Workers = s.pool.Size()
		st.PostersProcessed = s.pool.Processed()
		st.PostersFailed = s.pool.Failed()
	}
	if s.store == nil || s.blobs == nil {
		return st, fmt.Errorf("%w: store and blob store are required", ErrNotConfigured)
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}
	st.Records = counts

	entries, err := s.Leaderboard(ctx, 0)
	if err != nil {
		return Stats{}, err
	}
	st.Participants = len(entries)

	if st.Blobs, err = s.blobs.Stats(ctx); err != nil {
		return Stats{}, err
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	st.HeapBytes = mem.HeapAlloc
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(st.Goroutines)
	return st, nil
}
