package dto

import "time"

// Entry é uma linha do ranking por saldo
type Entry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	Balance       int64  `json:"balance"`
	Highest       int64  `json:"highestTokens"`
	TotalWinnings int64  `json:"totalWinnings"`
	TotalSpins    int64  `json:"totalSpins"`
}

// Spin representa um giro gravado no log
type Spin struct {
	RoundID       string           `json:"roundId"`
	OutcomeID     string           `json:"outcomeId"`
	Wagers        map[string]int64 `json:"wagers"`
	TotalStake    int64            `json:"totalStake"`
	GrossWinnings int64            `json:"grossWinnings"`
	Modifier      string           `json:"modifier"`
	ActualPayout  int64            `json:"actualPayout"`
	NetResult     int64            `json:"netResult"`
	BalanceBefore int64            `json:"balanceBefore"`
	BalanceAfter  int64            `json:"balanceAfter"`
	SettledAt     time.Time        `json:"settledAt"`
}
