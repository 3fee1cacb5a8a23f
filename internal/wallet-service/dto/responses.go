package dto

type WalletResponse struct {
	UserID        string `json:"userId"`
	WalletID      string `json:"walletId"`
	Balance       int64  `json:"balance"`
	Highest       int64  `json:"highest_tokens"`
	TotalWinnings int64  `json:"total_winnings"`
	TotalSpins    int64  `json:"total_spins"`
	LastResetDate string `json:"last_reset_date"`
}

// Status: "APPLIED" | "DUPLICATE"
type SettleResponse struct {
	RoundID string `json:"roundId"`
	Status  string `json:"status"`
	Balance int64  `json:"balance"`
}

type DailyFloorResponse struct {
	UserID  string `json:"userId"`
	Balance int64  `json:"balance"`
	Result  string `json:"result"` // "raised" | "stamped" | "already_applied"
}

const (
	SettleApplied   = "APPLIED"
	SettleDuplicate = "DUPLICATE"
)
