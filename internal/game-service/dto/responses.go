package dto

import "github.com/radieske/trivia-roulette-platform/internal/game/domain"

type RoundView struct {
	RoundID    string          `json:"roundId"`
	State      string          `json:"state"` // "accepting" | "locked"
	Wagers     domain.WagerMap `json:"wagers"`
	TotalStake int64           `json:"totalStake"`
	Balance    int64           `json:"balance"`
	Pending    bool            `json:"pendingSettlement"`
	QuestionID string          `json:"questionId,omitempty"`
}

type SpinResponse struct {
	domain.SettlementRecord
	Won bool `json:"won"`
}

type OutcomesResponse struct {
	Set      string           `json:"set"`
	Policy   string           `json:"policy"`
	Outcomes []domain.Outcome `json:"outcomes"`
}

type HistoryResponse struct {
	UserID string                    `json:"userId"`
	Spins  []domain.SettlementRecord `json:"spins"`
}
