package observability

import (
	"context"
	"log/slog"
	"sync"
)

// Config captures observability toggles.
type Config struct {
	Enabled bool
}

// ShutdownFunc tears down any observability state.
type ShutdownFunc func(context.Context) error

var (
	stateMu  sync.RWMutex
	obsLog   *slog.Logger
	obsState Config
)

func currentLogger() (*slog.Logger, Config) {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return obsLog, obsState
}

// Setup wires span logging and the in-process metric registry.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (ShutdownFunc, error) {
	stateMu.Lock()
	obsLog = logger
	obsState = cfg
	stateMu.Unlock()

	if logger != nil {
		if cfg.Enabled {
			logger.InfoContext(ctx, "observability enabled")
		} else {
			logger.InfoContext(ctx, "observability disabled")
		}
	}
	return func(context.Context) error {
		resetMetrics()
		return nil
	}, nil
}
