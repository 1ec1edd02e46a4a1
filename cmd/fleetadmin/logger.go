package main

import (
	"github.com/septivank/fleet-admin-api/internal/config"
	"github.com/septivank/fleet-admin-api/internal/logging"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName, cfg.Log.Level, cfg.Log.Format)
}

// fxLogger routes fx's own lifecycle events through zap
func fxLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}
