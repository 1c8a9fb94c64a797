// Command factmap-mcp serves fact tables to MCP clients over stdio.
//
// The workspace root is the enclosing git repository of the working
// directory. Fact files under it are loaded at startup; clients reload with
// the load tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"factmap/internal/config"
	"factmap/internal/logging"
	"factmap/internal/server"
	"factmap/util"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	root, err := util.FindGitRoot(".")
	if err != nil {
		return fmt.Errorf("resolve workspace root: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Root:         root,
		Extensions:   cfg.Extensions,
		MaxArguments: cfg.MaxArguments,
		Logger:       logger,
	})

	// A broken fact file must not keep the server from starting.
	if _, err := srv.LoadPath(ctx, ""); err != nil {
		logger.Warn("Initial load failed", zap.String("root", root), zap.Error(err))
	}

	logger.Info("Serving", zap.String("root", root))
	return srv.Run(ctx)
}
