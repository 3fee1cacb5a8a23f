package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/dto"
)

type ReadRepo struct {
	DB *sql.DB
}

// TopBalances ordena por saldo; empate desempata por user_id pra manter o ranking estável
func (r *ReadRepo) TopBalances(ctx context.Context, limit int) ([]dto.Entry, error) {
	const q = `
		SELECT user_id, balance_tokens, highest_tokens, total_winnings, total_spins
		FROM wallets
		ORDER BY balance_tokens DESC, user_id ASC
		LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.Entry{}
	for rows.Next() {
		e := dto.Entry{Rank: len(out) + 1}
		if err := rows.Scan(&e.UserID, &e.Balance, &e.Highest, &e.TotalWinnings, &e.TotalSpins); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ReadRepo) UserSpins(ctx context.Context, userID string, limit int) ([]dto.Spin, error) {
	const q = `
		SELECT round_id, outcome_id, wagers, total_stake, gross_winnings, modifier,
		       actual_payout, net_result, balance_before, balance_after, settled_at
		FROM spins
		WHERE user_id = $1
		ORDER BY settled_at DESC
		LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dto.Spin{}
	for rows.Next() {
		var (
			s      dto.Spin
			wagers []byte
		)
		if err := rows.Scan(&s.RoundID, &s.OutcomeID, &wagers, &s.TotalStake, &s.GrossWinnings, &s.Modifier,
			&s.ActualPayout, &s.NetResult, &s.BalanceBefore, &s.BalanceAfter, &s.SettledAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(wagers, &s.Wagers); err != nil {
			return nil, fmt.Errorf("round %s wagers: %w", s.RoundID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ReadRepo) Ping(ctx context.Context) error { return r.DB.PingContext(ctx) }
