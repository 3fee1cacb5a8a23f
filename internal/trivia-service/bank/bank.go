package bank

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
)

//go:embed questions.json
var defaultQuestions []byte

// Bank é o catálogo de perguntas em memória
type Bank struct {
	byID    map[string]trivia.Question
	byTopic map[string][]string
	all     []string

	mu  sync.Mutex
	rng *rand.Rand
}

// Default carrega o catálogo embutido
func Default(rng *rand.Rand) (*Bank, error) {
	var qs []trivia.Question
	if err := json.Unmarshal(defaultQuestions, &qs); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return New(qs, rng)
}

func New(questions []trivia.Question, rng *rand.Rand) (*Bank, error) {
	b := &Bank{
		byID:    make(map[string]trivia.Question, len(questions)),
		byTopic: map[string][]string{},
		rng:     rng,
	}
	for _, q := range questions {
		if q.ID == "" || len(q.Accepted) == 0 {
			return nil, fmt.Errorf("question %q: id and accepted answers required", q.ID)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %q: duplicate id", q.ID)
		}
		b.byID[q.ID] = q
		b.byTopic[q.Topic] = append(b.byTopic[q.Topic], q.ID)
		b.all = append(b.all, q.ID)
	}
	if len(b.all) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	return b, nil
}

// Random sorteia uma pergunta do tópico (vazio = qualquer tópico), sem as respostas
func (b *Bank) Random(_ context.Context, topic string) (trivia.Question, error) {
	ids := b.all
	if topic != "" {
		ids = b.byTopic[topic]
	}
	if len(ids) == 0 {
		return trivia.Question{}, fmt.Errorf("topic %q: %w", topic, trivia.ErrUnknownQuestion)
	}
	b.mu.Lock()
	id := ids[b.rng.Intn(len(ids))]
	b.mu.Unlock()
	return b.byID[id].Public(), nil
}

// Evaluate confere a resposta livre contra as respostas aceitas
func (b *Bank) Evaluate(_ context.Context, questionID, answer string) (bool, error) {
	q, ok := b.byID[questionID]
	if !ok {
		return false, fmt.Errorf("question %q: %w", questionID, trivia.ErrUnknownQuestion)
	}
	return trivia.Matches(answer, q.Accepted), nil
}

func (b *Bank) Topics() []string {
	out := make([]string, 0, len(b.byTopic))
	for t := range b.byTopic {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
