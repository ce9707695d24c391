package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepOrphans(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, "not a cron line", zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestScheduler_DisabledWithoutSchedule(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, "", zerolog.Nop())
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_RegistersSweep(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, "0 30 3 * * *", zerolog.Nop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_SweepRunsAndLogsFailures(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, "@every 1h", zerolog.Nop())
	s.sweepOrphans()

	sweeper.err = errors.New("store down")
	s.sweepOrphans()

	assert.EqualValues(t, 2, sweeper.calls.Load())
}
