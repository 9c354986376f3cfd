// Package main is the entry point for PrisonStep.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/config"
	"github.com/Faultbox/prisonstep/internal/game"
	"github.com/Faultbox/prisonstep/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("=== PrisonStep ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Log.Error("failed to create game", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Log.Error("game error", zap.Error(err))
		return
	}

	logger.Log.Info("game closed normally")
}
