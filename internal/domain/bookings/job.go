package bookings

import (
	"context"
	"time"
)

// RunNoShowJob marca no-shows al arrancar y después cada medianoche (zona del local).
// Bloquea hasta que ctx se cancela.
func (s *Service) RunNoShowJob(ctx context.Context) {
	s.log.Info().Msg("no-show job started")
	s.sweepNoShows(ctx)

	for {
		wait := untilNextMidnight(s.now(), s.loc)
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("no-show job stopped")
			return
		case <-timer.C:
			s.sweepNoShows(ctx)
		}
	}
}

func (s *Service) sweepNoShows(ctx context.Context) {
	today := s.Today()
	n, err := s.MarkNoShows(ctx, today)
	if err != nil {
		s.log.Error().Err(err).Str("today", today.String()).Msg("no-show sweep failed")
		return
	}
	s.log.Info().Int("marked", n).Str("today", today.String()).Msg("no-show sweep done")
}

func untilNextMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.Sub(local)
}
