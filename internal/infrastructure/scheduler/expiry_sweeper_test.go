package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweep struct {
	calls     atomic.Int32
	graceDays atomic.Int32
}

func (f *fakeSweep) SweepExpired(_ context.Context, graceDays int) (int, error) {
	f.calls.Add(1)
	f.graceDays.Store(int32(graceDays))
	return 2, nil
}

func TestExpirySweeper_MaybeRun(t *testing.T) {
	sweep := &fakeSweep{}
	sweeper := NewExpirySweeper(ExpirySweeperConfig{Hour: 3, GraceDays: 5}, sweep, zap.NewNop())

	ctx := context.Background()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("before the hour nothing runs", func(t *testing.T) {
		sweeper.maybeRun(ctx, day.Add(2*time.Hour))
		assert.Equal(t, int32(0), sweep.calls.Load())
	})

	t.Run("runs once at the hour", func(t *testing.T) {
		sweeper.maybeRun(ctx, day.Add(3*time.Hour))
		assert.Equal(t, int32(1), sweep.calls.Load())
		assert.Equal(t, int32(5), sweep.graceDays.Load())
	})

	t.Run("same day does not repeat", func(t *testing.T) {
		sweeper.maybeRun(ctx, day.Add(4*time.Hour))
		sweeper.maybeRun(ctx, day.Add(20*time.Hour))
		assert.Equal(t, int32(1), sweep.calls.Load())
	})

	t.Run("next day runs again", func(t *testing.T) {
		sweeper.maybeRun(ctx, day.AddDate(0, 0, 1).Add(3*time.Hour))
		assert.Equal(t, int32(2), sweep.calls.Load())
	})
}

func TestExpirySweeper_StartStop(t *testing.T) {
	sweep := &fakeSweep{}
	sweeper := NewExpirySweeper(ExpirySweeperConfig{
		Hour:          0,
		GraceDays:     3,
		CheckInterval: 5 * time.Millisecond,
	}, sweep, zap.NewNop())

	sweeper.Start(context.Background())
	sweeper.Start(context.Background()) // second start is a no-op

	require.Eventually(t, func() bool {
		return sweep.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(ctx))

	// once per day, even with a fast check interval
	assert.Equal(t, int32(1), sweep.calls.Load())
}

func TestExpirySweeper_RunOnce(t *testing.T) {
	sweep := &fakeSweep{}
	sweeper := NewExpirySweeper(DefaultExpirySweeperConfig(), sweep, zap.NewNop())

	suspended, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, suspended)
	assert.Equal(t, int32(3), sweep.graceDays.Load())
}
