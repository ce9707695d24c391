package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper removes records whose owner no longer exists.
type Sweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	sweeper  Sweeper
	schedule string
	timeout  time.Duration
	log      zerolog.Logger
}

func NewScheduler(sweeper Sweeper, schedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  5 * time.Minute,
		log:      log,
	}
}

// Start registers the sweep and starts the cron loop. An empty schedule
// disables the job.
func (s *Scheduler) Start() error {
	if s.sweeper == nil || s.schedule == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweepOrphans); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("orphan sweep scheduled")
	return nil
}

// Stop waits for a running job to finish, up to the returned context's
// deadline.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	removed, err := s.sweeper.SweepOrphans(ctx)
	if err != nil {
		s.log.Error().Err(err).Int64("removed", removed).Msg("orphan sweep failed")
		return
	}
	s.log.Info().
		Int64("removed", removed).
		Dur("took", time.Since(start)).
		Msg("orphan sweep finished")
}
