package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/trivia-roulette-platform/pkg/contracts/events"
)

// PostgresRepo grava o log de giros (append-only) na tabela spins
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// InsertSpin grava o registro; round_id repetido é ignorado e devolve inserted=false
func (r *PostgresRepo) InsertSpin(ctx context.Context, e events.RoundSettled) (bool, error) {
	wagers, err := json.Marshal(e.Wagers)
	if err != nil {
		return false, fmt.Errorf("marshal wagers: %w", err)
	}
	const q = `
		INSERT INTO spins
		  (round_id, user_id, outcome_id, wagers, total_stake, gross_winnings, modifier,
		   actual_payout, net_result, balance_before, balance_after, settled_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (round_id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, q,
		e.RoundID, e.UserID, e.OutcomeID, wagers, e.TotalStake, e.GrossWinnings, e.Modifier,
		e.ActualPayout, e.NetResult, e.BalanceBefore, e.BalanceAfter, e.SettledAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error { return r.DB.PingContext(ctx) }
