package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trendscope/trendscope/internal/config"
	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/queue"
	"github.com/trendscope/trendscope/internal/resultstore"
	"github.com/trendscope/trendscope/internal/services"
	"github.com/trendscope/trendscope/internal/worker"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Worker service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Connect to result store (configurable backend)
	logger.Info("Connecting to result store", "backend", cfg.Results.Backend)
	store, err := resultstore.NewFromConfig(cfg.Results)
	if err != nil {
		logger.Fatal("Failed to connect to result store", "error", err)
	}
	defer func() { _ = store.Close() }()

	// Connect to Queue (configurable backend)
	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	subscriber, err := queue.NewSubscriber(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	defer func() { _ = subscriber.Close() }()
	logger.Info("Queue connection established")

	// The worker never publishes, so no publisher is wired
	service := services.NewAnalysisService(logger, store, nil, cfg.Analysis)

	w := worker.New(logger, subscriber, service, cfg.Analysis.WorkerCount)
	if err := w.Start(); err != nil {
		logger.Fatal("Failed to start worker", "error", err)
	}

	logger.Info("Worker service started",
		"subject", services.AnalysisJobsSubject,
		"concurrency", cfg.Analysis.WorkerCount,
		"queue_type", cfg.Queue.Type,
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")

	if err := w.Stop(); err != nil {
		logger.Error("Failed to stop worker cleanly", "error", err)
	}

	// Give in-flight jobs a moment to finish persisting
	time.Sleep(2 * time.Second)

	logger.Info("Worker exited")
}
