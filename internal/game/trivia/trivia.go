package trivia

import (
	"errors"
	"strings"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

var ErrUnknownQuestion = errors.New("unknown question")

// Question: Difficulty vai de 1 (iniciante) a 5 (expert); TimeLimit em segundos, 0 = sem limite
type Question struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Tags       []string `json:"tags,omitempty"`
	Difficulty int      `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	TimeLimit  int      `json:"time_limit,omitempty"`
	Accepted   []string `json:"accepted,omitempty"`
}

// Public devolve a pergunta sem as respostas aceitas
func (q Question) Public() Question {
	q.Accepted = nil
	return q
}

// Matches compara sem diferenciar maiúsculas: a resposta é aceita se contém
// alguma das respostas aceitas. Resposta vazia nunca casa.
func Matches(answer string, accepted []string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	for _, acc := range accepted {
		acc = strings.ToLower(strings.TrimSpace(acc))
		if acc == "" {
			continue
		}
		if strings.Contains(a, acc) {
			return true
		}
	}
	return false
}

// Gate converte o resultado da pergunta no modificador da rodada
func Gate(answered, correct bool) domain.Modifier {
	return domain.ModifierFromAnswer(answered, correct)
}
