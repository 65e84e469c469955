package main

import (
	"context"
	"fmt"
	"lanchat/domain"
	"lanchat/infrastructure/storage"
	"lanchat/internal"
	"lanchat/runtime"
	"lanchat/runtime/workers"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the relay and blocks until a signal or a fatal worker failure.
// Returning instead of exiting lets every defer (store, listeners) run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	log.Info("LAN chat relay", "version", version)

	// 2. File store
	store, err := storage.OpenFileStore(log, config.FileStore, config.FilesDir, config.BadgerFilepath)
	if err != nil {
		return fmt.Errorf("file store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing file store...")
		_ = store.Close()
	}()

	// 3. Bind every port before starting anything
	endpoints, err := bind(config)
	if err != nil {
		return err
	}

	// 4. Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 5. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator, err := runtime.NewOrchestrator(log, sup, store, promRegistry,
		clockwork.NewRealClock(), config.HeartbeatInterval)
	if err != nil {
		return err
	}

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Relay started", "chat", endpoints.Chat.Addr().String(), "files", endpoints.Files.Addr().String())
	if err = orchestrator.Run(ctx, endpoints); err != nil {
		return fmt.Errorf("relay stopped: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}

func bind(config internal.Config) (runtime.Endpoints, error) {
	var endpoints runtime.Endpoints
	var err error

	if endpoints.Chat, err = listen(config.Host, domain.ChatPort); err != nil {
		return endpoints, err
	}
	if endpoints.Files, err = listen(config.Host, domain.FilePort); err != nil {
		_ = endpoints.Chat.Close()
		return endpoints, err
	}
	if config.MetricsPort == 0 {
		return endpoints, nil
	}
	if endpoints.Metrics, err = listen(config.Host, config.MetricsPort); err != nil {
		_ = endpoints.Chat.Close()
		_ = endpoints.Files.Close()
		return endpoints, err
	}
	return endpoints, nil
}

func listen(host string, port int) (net.Listener, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}
