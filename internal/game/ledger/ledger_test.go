package ledger

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

func fixedIDs(ids ...string) Option {
	i := 0
	return WithRoundIDs(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	})
}

func TestPlaceBetRejectsOverBalance(t *testing.T) {
	l := New(domain.AmericanRoulette())

	_, err := l.PlaceBet("5", 50, 40)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Empty(t, l.Wagers())
}

func TestPlaceBetHugeDeltaKeepsStake(t *testing.T) {
	l := New(domain.AmericanRoulette())
	_, err := l.PlaceBet("17", 10, 100)
	require.NoError(t, err)

	_, err = l.PlaceBet("17", math.MaxInt64, 100)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, domain.WagerMap{"17": 10}, l.Wagers())

	_, err = l.PlaceBet("17", math.MinInt64, 100)
	require.NoError(t, err)
	assert.Empty(t, l.Wagers())
}

func TestPlaceBetIncrementAndDecrement(t *testing.T) {
	l := New(domain.AmericanRoulette())

	w, err := l.PlaceBet("17", 10, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.WagerMap{"17": 10}, w)

	w, err = l.PlaceBet("00", 25, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(35), domain.TotalStake(w))

	w, err = l.PlaceBet("17", -4, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(6), w["17"])

	// abaixo de zero vira zero e a entrada some
	w, err = l.PlaceBet("17", -50, 100)
	require.NoError(t, err)
	_, ok := w["17"]
	assert.False(t, ok)
	assert.Equal(t, int64(25), l.TotalStake())
}

func TestPlaceBetReturnsCopy(t *testing.T) {
	l := New(domain.AmericanRoulette())
	w, err := l.PlaceBet("1", 10, 100)
	require.NoError(t, err)
	w["1"] = 1000
	assert.Equal(t, int64(10), l.TotalStake())
}

func TestPlaceBetUnknownOutcome(t *testing.T) {
	l := New(domain.EuropeanRoulette())
	_, err := l.PlaceBet("00", 1, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
}

func TestLockedRejectsMutations(t *testing.T) {
	l := New(domain.AmericanRoulette(), fixedIDs("r1", "r2"))
	_, err := l.PlaceBet("7", 10, 100)
	require.NoError(t, err)

	snap, err := l.Lock(100)
	require.NoError(t, err)
	assert.Equal(t, "r1", snap.RoundID)
	assert.Equal(t, int64(10), snap.TotalStake)
	assert.Equal(t, Locked, l.State())

	_, err = l.PlaceBet("7", 1, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidRoundState)
	_, err = l.ClearBets()
	assert.ErrorIs(t, err, domain.ErrInvalidRoundState)
	_, err = l.Lock(100)
	assert.ErrorIs(t, err, domain.ErrInvalidRoundState)

	require.NoError(t, l.Reset())
	assert.Equal(t, Accepting, l.State())
	assert.Equal(t, "r2", l.RoundID())
	assert.Empty(t, l.Wagers())
}

func TestResetRequiresLocked(t *testing.T) {
	l := New(domain.AmericanRoulette())
	assert.ErrorIs(t, l.Reset(), domain.ErrInvalidRoundState)
}

func TestLockChecks(t *testing.T) {
	l := New(domain.AmericanRoulette())
	_, err := l.Lock(100)
	assert.ErrorIs(t, err, domain.ErrNoWagers)

	_, err = l.PlaceBet("3", 80, 100)
	require.NoError(t, err)
	// saldo caiu entre a aposta e o giro
	_, err = l.Lock(50)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, Accepting, l.State())
}

func TestClearBets(t *testing.T) {
	l := New(domain.AmericanRoulette())
	_, _ = l.PlaceBet("3", 10, 100)
	w, err := l.ClearBets()
	require.NoError(t, err)
	assert.Empty(t, w)
	assert.Equal(t, int64(0), l.TotalStake())
}

func TestConcurrentPlaceBetNeverOverspends(t *testing.T) {
	l := New(domain.AmericanRoulette())
	const balance = 100

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = l.PlaceBet(strconv.Itoa(i%36+1), 7, balance)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, l.TotalStake(), int64(balance))
	assert.Equal(t, int64(98), l.TotalStake())
}

func TestSolvencyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		set := domain.AmericanRoulette()
		ids := make([]string, 0, set.Len())
		for _, o := range set.Outcomes() {
			ids = append(ids, o.ID)
		}
		l := New(set)
		balance := rapid.Int64Range(0, 5000).Draw(t, "balance")

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.SampledFrom(ids).Draw(t, "outcome")
			delta := rapid.Int64Range(-500, 500).Draw(t, "delta")
			before := l.Wagers()

			_, err := l.PlaceBet(id, delta, balance)
			if errors.Is(err, domain.ErrInsufficientBalance) {
				if !mapsEqual(before, l.Wagers()) {
					t.Fatalf("rejected bet changed the map")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total := l.TotalStake(); total > balance {
				t.Fatalf("total stake %d above balance %d", total, balance)
			}
			for k, v := range l.Wagers() {
				if v <= 0 {
					t.Fatalf("non-positive stake %d on %s", v, k)
				}
			}
		}
	})
}

func mapsEqual(a, b domain.WagerMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
