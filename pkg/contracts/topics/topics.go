package topics

const (
	// Rodadas liquidadas (game-service -> spin-log-worker)
	RoundSettled = "round_settled"

	// DLQs
	RoundSettledDLQ = "round_settled_dlq"

	// Redis Pub/Sub (spin-log-worker -> leaderboard-service/ws)
	RoundSettledBroadcast = "round_settled_broadcast"

	// Chave do top do leaderboard no Redis; o spin-log-worker invalida a cada giro novo
	LeaderboardCacheKey = "leaderboard:top"
)
