package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/config"
	"github.com/okian/rendezvous/internal/seed"
	"github.com/okian/rendezvous/pkg/logger"
)

const seedTimeout = 2 * time.Minute

func main() {
	var (
		configFile = flag.String("config", "", "YAML config file (overrides RDV_CONFIG)")
		reset      = flag.Bool("reset", false, "Delete every record and its stored files first")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}
	if *configFile != "" {
		_ = os.Setenv(config.EnvPrefix+"CONFIG", *configFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, &seed.Config{Reset: *reset, Verbose: *verbose}); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sc *seed.Config) error {
	store, err := repository.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs, err := blobstore.Open(cfg.BlobPath)
	if err != nil {
		return err
	}
	defer blobs.Close()

	_, err = seed.Run(ctx, store, blobs, sc)
	return err
}
