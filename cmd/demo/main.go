// Package main is the entry point for the Quadra demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/quadra/internal/config"
	"github.com/Faultbox/quadra/internal/game"
	"github.com/Faultbox/quadra/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Quadra demo ===", zap.String("backend", cfg.Graphics.Backend))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("demo closed normally")
}

// run keeps the deferred Close ahead of os.Exit.
func run(cfg *config.Config) error {
	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	defer g.Close()

	return g.Run()
}
