package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

func TestBalanceStartsAtStartingBalance(t *testing.T) {
	s := New(100, 100, time.UTC)
	b, err := s.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), b)
}

func TestApplySettlementIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(100, 100, time.UTC)

	rec := domain.SettlementRecord{RoundID: "r1", UserID: "u1", NetResult: 250, ActualPayout: 260}
	require.NoError(t, s.ApplySettlement(ctx, rec))

	err := s.ApplySettlement(ctx, rec)
	assert.ErrorIs(t, err, domain.ErrDuplicateSettlement)

	b, _ := s.Balance(ctx, "u1")
	assert.Equal(t, int64(350), b)
}

func TestApplySettlementRejectsNegative(t *testing.T) {
	s := New(100, 100, time.UTC)
	err := s.ApplySettlement(context.Background(), domain.SettlementRecord{RoundID: "r1", UserID: "u1", NetResult: -101})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestDailyFloorOnRead(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(100, 100, time.UTC).WithClock(func() time.Time { return now })

	require.NoError(t, s.ApplySettlement(ctx, domain.SettlementRecord{RoundID: "r1", UserID: "u1", NetResult: -70}))
	b, _ := s.Balance(ctx, "u1")
	assert.Equal(t, int64(30), b)

	now = now.Add(24 * time.Hour)
	b, _ = s.Balance(ctx, "u1")
	assert.Equal(t, int64(100), b)

	require.NoError(t, s.ApplySettlement(ctx, domain.SettlementRecord{RoundID: "r2", UserID: "u1", NetResult: -100}))
	b, _ = s.Balance(ctx, "u1")
	assert.Equal(t, int64(0), b)
}

func TestApplyDailyFloorExplicit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s := New(100, 100, time.UTC).WithClock(func() time.Time { return now })

	require.NoError(t, s.ApplySettlement(ctx, domain.SettlementRecord{RoundID: "r1", UserID: "u1", NetResult: -70}))
	res, err := s.ApplyDailyFloor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, dailyfloor.AlreadyApplied, res)

	now = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	res, err = s.ApplyDailyFloor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, dailyfloor.Raised, res)

	res, _ = s.ApplyDailyFloor(ctx, "u1")
	assert.Equal(t, dailyfloor.AlreadyApplied, res)
	b, _ := s.Balance(ctx, "u1")
	assert.Equal(t, int64(100), b)
}

func TestSpinLog(t *testing.T) {
	ctx := context.Background()
	s := New(100, 100, time.UTC)

	require.NoError(t, s.PublishRoundSettled(ctx, domain.SettlementRecord{RoundID: "r1", UserID: "u1"}))
	require.NoError(t, s.PublishRoundSettled(ctx, domain.SettlementRecord{RoundID: "r1", UserID: "u1"}))
	require.NoError(t, s.PublishRoundSettled(ctx, domain.SettlementRecord{RoundID: "r2", UserID: "u1"}))
	require.NoError(t, s.PublishRoundSettled(ctx, domain.SettlementRecord{RoundID: "r3", UserID: "u2"}))

	spins := s.Spins("u1")
	require.Len(t, spins, 2)
	assert.Equal(t, "r2", spins[0].RoundID)
}
