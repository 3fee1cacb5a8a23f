package domain

import "time"

// SettlementRecord é o registro imutável de uma rodada liquidada (trilha de auditoria)
// Criado uma única vez pelo engine; nunca alterado nem removido
type SettlementRecord struct {
	RoundID       string    `json:"roundId"`
	UserID        string    `json:"userId"`
	OutcomeID     string    `json:"outcomeId"`
	Wagers        WagerMap  `json:"wagers"`
	TotalStake    int64     `json:"totalStake"`
	GrossWinnings int64     `json:"grossWinnings"`
	Modifier      Modifier  `json:"modifier"`
	ActualPayout  int64     `json:"actualPayout"`
	NetResult     int64     `json:"netResult"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	SettledAt     time.Time `json:"settledAt"`
}
