// Package sweeper removes expired session rows in the background. Validation
// already treats expired sessions as invalid, but without the sweeper their
// rows would accumulate until the owning user is deleted.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/trenatra/auth-api/internal/api/metrics"
	"github.com/trenatra/auth-api/internal/core/ports"
)

const defaultInterval = time.Hour

// Sweeper periodically deletes sessions whose expiry has passed.
type Sweeper struct {
	sessions ports.SessionRepository
	interval time.Duration
	log      zerolog.Logger
}

// New creates a Sweeper. If interval <= 0, defaultInterval is used.
func New(sessions ports.SessionRepository, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{sessions: sessions, interval: interval, log: log}
}

// Start launches the sweep loop in its own goroutine. The loop stops when ctx
// is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error().Err(err).Msg("session sweep failed")
			}
		}
	}
}

// Sweep deletes every session expired as of now. Exposed so operators and
// tests can trigger a pass directly.
func (s *Sweeper) Sweep(ctx context.Context) error {
	n, err := s.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.SessionsSweptTotal.Add(float64(n))
		s.log.Info().Int64("sessions", n).Msg("expired sessions swept")
	}
	return nil
}
