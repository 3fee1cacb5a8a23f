package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/trivia-roulette-platform/pkg/contracts/events"
)

func sampleEvent() events.RoundSettled {
	return events.RoundSettled{
		RoundID:       "r1",
		UserID:        "u1",
		OutcomeID:     "17",
		Wagers:        map[string]int64{"17": 10},
		TotalStake:    10,
		GrossWinnings: 360,
		Modifier:      "absent",
		ActualPayout:  180,
		NetResult:     170,
		BalanceBefore: 100,
		BalanceAfter:  270,
		SettledAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Version:       events.RoundSettledVersion,
	}
}

func TestInsertSpin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ev := sampleEvent()
	mock.ExpectExec("INSERT INTO spins").
		WithArgs("r1", "u1", "17", []byte(`{"17":10}`), int64(10), int64(360), "absent",
			int64(180), int64(170), int64(100), int64(270), ev.SettledAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO spins").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepo(db)
	inserted, err := repo.InsertSpin(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertSpin(context.Background(), ev)
	require.NoError(t, err)
	assert.False(t, inserted, "round_id repetido não insere")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSpinError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO spins").WillReturnError(errors.New("conn reset"))
	_, err = NewPostgresRepo(db).InsertSpin(context.Background(), sampleEvent())
	assert.EqualError(t, err, "conn reset")
	require.NoError(t, mock.ExpectationsWereMet())
}
