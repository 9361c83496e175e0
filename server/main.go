package server

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagecast/pkg/config"
	"stagecast/pkg/dispatch"
	"stagecast/pkg/logger"
)

// Main parses flags, loads configuration and runs the relay until a
// termination signal arrives
func Main() {
	addr := flag.String("addr", "", "Server address (overrides config)")
	configPath := flag.String("config", "", "Config file path (optional)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	logFormat := flag.String("log-format", "", "Log format: text or json (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Address = *addr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format)
	log := logger.Get()
	log.InfoWith("server starting", "version", Version)

	// No integration layer is wired in the standalone binary, so every
	// non-administrative command is rejected and logged
	processor := dispatch.ProcessorFunc(func(msgType string, _ json.RawMessage, _ string) (*dispatch.Reply, error) {
		return nil, fmt.Errorf("unknown command type: %s", msgType)
	})

	srv := New(cfg, processor)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.InfoWith("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.ErrorWithErr("server failed", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.ErrorWithErr("shutdown failed", err)
	}
}
