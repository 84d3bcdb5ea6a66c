package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgconfig "github.com/Vodeneev/specialsbot/internal/pkg/config"
	"github.com/Vodeneev/specialsbot/internal/pkg/extract"
	"github.com/Vodeneev/specialsbot/internal/pkg/fetcher"
	"github.com/Vodeneev/specialsbot/internal/pkg/logging"
	"github.com/Vodeneev/specialsbot/internal/pkg/notify"
	"github.com/Vodeneev/specialsbot/internal/pkg/recon"
	"github.com/Vodeneev/specialsbot/internal/pkg/report"
	"github.com/Vodeneev/specialsbot/internal/pkg/storage"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type config struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Scanner failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting scanner...")

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&appConfig.Logging, "scanner")
	slog.Info("Config loaded successfully")

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	store, err := newStorage(appConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	notifier := notify.New(&appConfig.Telegram)
	defer notifier.Stop()

	html, err := fetcher.New(&appConfig.Scraper).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	bags, err := extract.Parse(html)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	slog.Info("Extracted events from page", "events", len(bags))

	engine := recon.NewEngine(store, notifier)
	results := engine.Reconcile(ctx, bags)

	report.Print(os.Stdout, results)

	slog.Info("Scanner finished", "processed", len(results))
	return nil
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Abort the run after duration (e.g. 90s). 0 = run until done or SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func newStorage(appConfig *pkgconfig.Config) (storage.EventStorage, error) {
	switch appConfig.Storage.Backend {
	case "", "postgres":
		return storage.NewPostgresEventStorage(&appConfig.Storage.Postgres)
	case "redis":
		return storage.NewRedisEventStorage(&appConfig.Storage.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (supported: postgres, redis)", appConfig.Storage.Backend)
	}
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping scanner...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
