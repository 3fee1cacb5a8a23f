package events

import (
	"time"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

// Evento publicado no tópico "round_settled" depois que a carteira aplicou a liquidação.
// Carrega o registro completo; round_id é a chave de idempotência do log de giros.
type RoundSettled struct {
	RoundID       string           `json:"round_id"`
	UserID        string           `json:"user_id"`
	OutcomeID     string           `json:"outcome_id"`
	Wagers        map[string]int64 `json:"wagers"`
	TotalStake    int64            `json:"total_stake"`
	GrossWinnings int64            `json:"gross_winnings"`
	Modifier      string           `json:"modifier"` // "absent" | "correct" | "incorrect"
	ActualPayout  int64            `json:"actual_payout"`
	NetResult     int64            `json:"net_result"`
	BalanceBefore int64            `json:"balance_before"`
	BalanceAfter  int64            `json:"balance_after"`
	SettledAt     time.Time        `json:"settled_at"`
	Version       int              `json:"version"`
}

const RoundSettledVersion = 1

func FromRecord(rec domain.SettlementRecord) RoundSettled {
	return RoundSettled{
		RoundID:       rec.RoundID,
		UserID:        rec.UserID,
		OutcomeID:     rec.OutcomeID,
		Wagers:        rec.Wagers.Clone(),
		TotalStake:    rec.TotalStake,
		GrossWinnings: rec.GrossWinnings,
		Modifier:      rec.Modifier.String(),
		ActualPayout:  rec.ActualPayout,
		NetResult:     rec.NetResult,
		BalanceBefore: rec.BalanceBefore,
		BalanceAfter:  rec.BalanceAfter,
		SettledAt:     rec.SettledAt,
		Version:       RoundSettledVersion,
	}
}
