package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/interfaces"
)

// SessionSweeper periodically marks in-progress sessions idle for longer
// than the threshold as abandoned, so dashboards do not count dead runs as
// active forever.
type SessionSweeper struct {
	sessions      interfaces.SessionRepository
	db            interfaces.DBTX
	interval      time.Duration
	idleThreshold time.Duration
	logger        *zap.Logger
}

func NewSessionSweeper(
	sessions interfaces.SessionRepository,
	db interfaces.DBTX,
	interval, idleThreshold time.Duration,
	logger *zap.Logger,
) *SessionSweeper {
	return &SessionSweeper{
		sessions:      sessions,
		db:            db,
		interval:      interval,
		idleThreshold: idleThreshold,
		logger:        logger.Named("SessionSweeper"),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. The first
// sweep happens immediately on start.
func (w *SessionSweeper) Run(ctx context.Context) {
	w.logger.Info("Session sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("idleThreshold", w.idleThreshold),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	swept, err := w.sessions.MarkStaleInProgressAsAbandoned(ctx, w.db, w.idleThreshold)
	if err != nil {
		w.logger.Error("Failed to sweep stale sessions", zap.Error(err))
		return
	}
	if swept > 0 {
		w.logger.Info("Swept stale sessions", zap.Int64("count", swept))
	}
}
