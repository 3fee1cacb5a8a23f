package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopBalances(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, balance_tokens").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance_tokens", "highest_tokens", "total_winnings", "total_spins"}).
			AddRow("ana", 900, 1200, 3000, 40).
			AddRow("bia", 450, 500, 100, 3))

	out, err := (&ReadRepo{DB: db}).TopBalances(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "ana", out[0].UserID)
	assert.Equal(t, int64(1200), out[0].Highest)
	assert.Equal(t, 2, out[1].Rank)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopBalancesEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, balance_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance_tokens", "highest_tokens", "total_winnings", "total_spins"}))
	out, err := (&ReadRepo{DB: db}).TopBalances(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestUserSpins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{"round_id", "outcome_id", "wagers", "total_stake", "gross_winnings", "modifier",
		"actual_payout", "net_result", "balance_before", "balance_after", "settled_at"}
	mock.ExpectQuery("FROM spins").WithArgs("ana", 20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r2", "17", []byte(`{"17":10,"red":5}`), 15, 360, "incorrect", 108, 93, 100, 193, at))

	out, err := (&ReadRepo{DB: db}).UserSpins(context.Background(), "ana", 20)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, map[string]int64{"17": 10, "red": 5}, out[0].Wagers)
	assert.Equal(t, "incorrect", out[0].Modifier)
	assert.True(t, at.Equal(out[0].SettledAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSpinsBadWagers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"round_id", "outcome_id", "wagers", "total_stake", "gross_winnings", "modifier",
		"actual_payout", "net_result", "balance_before", "balance_after", "settled_at"}
	mock.ExpectQuery("FROM spins").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("r9", "1", []byte(`nope`), 1, 0, "absent", 0, -1, 5, 4, time.Now()))

	_, err = (&ReadRepo{DB: db}).UserSpins(context.Background(), "ana", 20)
	assert.ErrorContains(t, err, "round r9 wagers")
}
