package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	clts "kekbot/clients"
	"kekbot/config"
	"kekbot/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap logger for config errors; replaced once LOG_LEVEL is known.
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		if leveled, err := zapCfg.Build(); err == nil {
			logger = leveled
		}
	} else {
		logger.Warn("unknown log level, using info", zap.String("log_level", cfg.LogLevel))
	}
	defer logger.Sync()

	logger.Info("starting bot", zap.String("network", cfg.Network))

	clients, err := clts.NewClients(logger, cfg)
	if err != nil {
		logger.Fatal("failed to initialize clients", zap.Error(err))
	}

	runner := app.NewRunner(logger, cfg, clients)
	if err := runner.Run(ctx); err != nil {
		logger.Error("runner exited with error", zap.Error(err))
	}
	logger.Info("bot stopped")
}
