package question

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const maxLockWindow = 1440 * time.Minute

type historyCleaner interface {
	CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor periodically drops history rows older than the retention age.
// It never runs as part of a draw.
type Janitor struct {
	history   historyCleaner
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewJanitor(history historyCleaner, interval, retention time.Duration, logger zerolog.Logger) *Janitor {
	// Rows inside the widest possible lock window must survive cleanup.
	if retention < maxLockWindow {
		retention = maxLockWindow
	}
	return &Janitor{
		history:   history,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		logger:    logger.With().Str("component", "history_janitor").Logger(),
	}
}

// Run blocks until context cancellation. A non-positive interval disables it.
func (j *Janitor) Run(ctx context.Context) error {
	if j.history == nil || j.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

func (j *Janitor) tick(ctx context.Context) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.history.CleanupBefore(ctx, cutoff)
	if err != nil {
		j.logger.Warn().Err(err).Msg("history cleanup failed")
		return
	}
	if n > 0 {
		j.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("history cleaned up")
	}
}
