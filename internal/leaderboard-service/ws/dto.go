package ws

import "encoding/json"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// UserID: obrigatório em subscribe/unsubscribe; "all" recebe todos os giros
type ClientMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// SpinUpdate é o que o spin-log-worker publica no Redis e o hub repassa
type SpinUpdate struct {
	UserID  string          `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}

// AllUsers é a assinatura que recebe os giros de todos os usuários
const AllUsers = "all"
