package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensor-bridge/pkg/api"
	"sensor-bridge/pkg/broker"
	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/ingest"
	"sensor-bridge/pkg/store"
	"sensor-bridge/pkg/telemetry"
	"sensor-bridge/pkg/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		info := version.Info()
		fmt.Printf("bridge version %s, commit %s, built %s\n", info.Version, info.Commit, info.Built)
		return
	}

	logger := log.New(os.Stdout, "[bridge] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	if cfg == nil {
		return // help was shown
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg := telemetry.NewAggregator(nil, telemetry.DefaultConfig())
	agg.Start(ctx)
	defer agg.Stop()

	// The store is required at startup: an ingestion bridge without its
	// store has nothing useful to do.
	st, err := store.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("store error: %v", err)
	}
	defer st.Close()
	agg.Publish(telemetry.NewConnectionStatusChanged(telemetry.EndpointStore, true))
	logger.Printf("store connected, pool size %d", cfg.Database.MaxConns)

	// The cache is optional: a missing Redis only costs the live view.
	var routerCache ingest.Cache
	var live api.LiveSource
	if cfg.Cache.RedisAddr != "" {
		cache, err := store.NewLatestCache(ctx, cfg.Cache)
		if err != nil {
			logger.Printf("cache disabled: %v", err)
		} else {
			defer cache.Close()
			routerCache = cache
			live = cache
			logger.Printf("latest-reading cache enabled at %s", cfg.Cache.RedisAddr)
		}
	}

	writeTimeout := time.Duration(cfg.Database.WriteTimeoutSeconds) * time.Second
	router := ingest.NewRouter(cfg.Broker, st, routerCache, logger, agg, writeTimeout)

	manager := broker.NewManager(cfg.Broker, logger, router.Handle, agg)
	if err := manager.Start(); err != nil {
		logger.Fatalf("broker error: %v", err)
	}
	defer manager.Close()

	server := api.NewServer(cfg, st, live)
	go func() {
		logger.Printf("http server listening on :%s", cfg.HTTPPort)
		if err := server.Listen(); err != nil {
			logger.Printf("http server stopped: %v", err)
		}
	}()
	defer server.Shutdown()

	cli := NewCLI(agg, cfg, logger)
	go cli.Run(ctx)
	defer cli.Stop()

	// Block until SIGINT or SIGTERM; the defers unwind the stack.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Printf("shutting down...")
}
