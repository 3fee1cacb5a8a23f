package dto

import "github.com/radieske/trivia-roulette-platform/internal/game/domain"

// SettleRequest carrega o registro calculado pelo game-service
type SettleRequest struct {
	domain.SettlementRecord
}

type DailyFloorRequest struct {
	UserID string `json:"userId"`
}
