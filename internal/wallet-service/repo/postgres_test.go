package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

var walletCols = []string{"id", "balance_tokens", "highest_tokens", "total_winnings", "total_spins", "last_reset_date"}

func newRepo(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p := NewPostgres(db, Rules{StartingBalance: 100, DailyFloor: 100})
	p.now = func() time.Time { return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC) }
	return p, mock
}

func TestGetOrCreateWalletRaisesFloor(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO wallets`).
		WithArgs(sqlmock.AnyArg(), "u1", int64(100), "2024-01-02").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 30, 500, 900, 12, "2024-01-01"))
	mock.ExpectExec(`UPDATE wallets`).
		WithArgs(int64(100), "2024-01-02", "w1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_ledger`).
		WithArgs("w1", int64(70), "daily-floor:2024-01-02").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, res, err := p.GetOrCreateWallet(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, dailyfloor.Raised, res)
	assert.Equal(t, int64(100), w.Balance)
	assert.Equal(t, int64(500), w.Highest)
	assert.Equal(t, "2024-01-02", w.LastResetDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateWalletSameDayIsNoop(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO wallets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 0, 100, 0, 3, "2024-01-02"))
	mock.ExpectCommit()

	w, res, err := p.GetOrCreateWallet(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, dailyfloor.AlreadyApplied, res)
	assert.Equal(t, int64(0), w.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func settledRecord() domain.SettlementRecord {
	return domain.SettlementRecord{
		RoundID:      "r1",
		UserID:       "u1",
		OutcomeID:    "17",
		ActualPayout: 360,
		NetResult:    350,
	}
}

func TestApplySettlement(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 1000, 1000, 0, 0, "2024-01-02"))
	mock.ExpectQuery(`SELECT 1 FROM wallet_ledger`).WithArgs("r1").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`UPDATE wallets`).
		WithArgs(int64(1350), int64(360), "w1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_ledger`).
		WithArgs("w1", int64(350), "settle:17", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, err := p.ApplySettlement(context.Background(), settledRecord())
	require.NoError(t, err)
	assert.Equal(t, int64(1350), w.Balance)
	assert.Equal(t, int64(1350), w.Highest)
	assert.Equal(t, int64(1), w.TotalSpins)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySettlementDuplicate(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 1350, 1350, 360, 1, "2024-01-02"))
	mock.ExpectQuery(`SELECT 1 FROM wallet_ledger`).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	w, err := p.ApplySettlement(context.Background(), settledRecord())
	assert.ErrorIs(t, err, domain.ErrDuplicateSettlement)
	assert.Equal(t, int64(1350), w.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySettlementUniqueViolation(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 1000, 1000, 0, 0, "2024-01-02"))
	mock.ExpectQuery(`SELECT 1 FROM wallet_ledger`).WithArgs("r1").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`UPDATE wallets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_ledger`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := p.ApplySettlement(context.Background(), settledRecord())
	assert.ErrorIs(t, err, domain.ErrDuplicateSettlement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySettlementRejectsNegative(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 5, 100, 0, 0, "2024-01-02"))
	mock.ExpectQuery(`SELECT 1 FROM wallet_ledger`).WithArgs("r1").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	rec := settledRecord()
	rec.NetResult = -10
	_, err := p.ApplySettlement(context.Background(), rec)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySettlementUnknownWallet(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := p.ApplySettlement(context.Background(), settledRecord())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepDailyFloor(t *testing.T) {
	p, mock := newRepo(t)

	mock.ExpectQuery(`SELECT user_id FROM wallets`).WithArgs("2024-01-02").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	// u1: abaixo do piso
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO wallets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w1", 10, 100, 0, 0, "2024-01-01"))
	mock.ExpectExec(`UPDATE wallets`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_ledger`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// u2: só carimba
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO wallets`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, balance_tokens`).WithArgs("u2").
		WillReturnRows(sqlmock.NewRows(walletCols).AddRow("w2", 900, 900, 0, 0, "2024-01-01"))
	mock.ExpectExec(`UPDATE wallets`).WithArgs(int64(900), "2024-01-02", "w2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	raised, err := p.SweepDailyFloor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, raised)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepDailyFloorQueryError(t *testing.T) {
	p, mock := newRepo(t)
	mock.ExpectQuery(`SELECT user_id FROM wallets`).WillReturnError(errors.New("boom"))

	_, err := p.SweepDailyFloor(context.Background())
	assert.Error(t, err)
}
