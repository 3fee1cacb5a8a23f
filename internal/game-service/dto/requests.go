package dto

type PlaceBetRequest struct {
	UserID    string `json:"userId"`
	OutcomeID string `json:"outcomeId"`
	Delta     int64  `json:"delta"` // negativo remove fichas; o total nunca fica abaixo de 0
}

// QuestionRequest: topic vazio = qualquer tópico
type QuestionRequest struct {
	UserID string `json:"userId"`
	Topic  string `json:"topic,omitempty"`
}

// SpinRequest: questionId deve ser o entregue por /rounds/question; vazio = rodada sem trivia (modificador "absent")
type SpinRequest struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId,omitempty"`
	Answer     string `json:"answer,omitempty"`
}
