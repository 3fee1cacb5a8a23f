package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sweeperFunc func(ctx context.Context) (int, error)

func (f sweeperFunc) SweepDailyFloor(ctx context.Context) (int, error) { return f(ctx) }

func TestRunOnceReportsResult(t *testing.T) {
	var gotRaised int
	var gotErr error
	s := NewScheduler(sweeperFunc(func(context.Context) (int, error) { return 3, nil }), time.UTC, zap.NewNop(),
		func(raised int, err error) { gotRaised, gotErr = raised, err })

	s.RunOnce(context.Background())
	assert.Equal(t, 3, gotRaised)
	assert.NoError(t, gotErr)

	boom := errors.New("boom")
	s = NewScheduler(sweeperFunc(func(context.Context) (int, error) { return 1, boom }), nil, zap.NewNop(),
		func(raised int, err error) { gotRaised, gotErr = raised, err })
	s.RunOnce(context.Background())
	assert.Equal(t, 1, gotRaised)
	assert.ErrorIs(t, gotErr, boom)
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(sweeperFunc(func(context.Context) (int, error) { return 0, nil }), time.UTC, zap.NewNop(), nil)
	assert.Error(t, s.Start(context.Background(), "every day"))
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(sweeperFunc(func(context.Context) (int, error) { return 0, nil }), time.UTC, zap.NewNop(), nil)
	require.NoError(t, s.Start(context.Background(), "0 0 * * *"))
	s.Stop()
}
