package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/http/api"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/adapters/tts"
	service "github.com/okian/rendezvous/internal/app"
	"github.com/okian/rendezvous/internal/config"
	"github.com/okian/rendezvous/internal/domain/session"
	"github.com/okian/rendezvous/pkg/logger"
	"github.com/okian/rendezvous/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second // poster renders and uploads
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 10 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> .env -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "service failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	metrics.Init(metricsOptions(cfg)...)

	svc, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc, log)

	srv := newHTTPServer(cfg, newAPIServer(cfg, svc, log).Handler(ctx))

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// buildService opens the stores and wires every collaborator from cfg.
// The returned service owns the stores and closes them on Stop.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	issuer, err := session.NewIssuer([]byte(cfg.SessionSecret), cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session issuer: %w", err)
	}
	creds, err := session.NewCredentials(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin credentials: %w", err)
	}

	store, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	blobs, err := blobstore.Open(cfg.BlobPath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if cfg.TTSURL == "" {
		log.Info(ctx, "text-to-speech disabled; announcement audio unavailable")
	}

	return service.New(
		service.WithLogger(log),
		service.WithStore(store),
		service.WithBlobs(blobs),
		service.WithSessionIssuer(issuer),
		service.WithCredentials(creds),
		service.WithTTS(tts.New(cfg.TTSURL,
			tts.WithTimeout(cfg.TTSTimeout),
			tts.WithDefaultVoice(cfg.TTSVoice),
		)),
		service.WithPosterWorkers(cfg.PosterWorkers),
		service.WithQueueSize(cfg.PosterQueueSize),
		service.WithDedupeSize(cfg.IdempotencySize),
		service.WithStandingsCron(cfg.StandingsCron),
	), nil
}

func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	}
}

func newAPIServer(cfg *config.Config, svc *service.Service, log logger.Logger) *api.Server {
	return api.NewServer(svc,
		api.WithLogger(log),
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithLoginRate(cfg.LoginRate, cfg.LoginBurst),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithCORSOrigins(cfg.CORSOrigins),
	)
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startServiceMetricsUpdater refreshes the service and system gauges until ctx ends.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service, log logger.Logger) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc, log)
		}
	}
}

// updateServiceMetrics collects stats; GetStats publishes the gauges itself.
func updateServiceMetrics(ctx context.Context, svc *service.Service, log logger.Logger) {
	if _, err := svc.GetStats(ctx); err != nil {
		log.Debug(ctx, "stats refresh failed", logger.Error(err))
	}
}
