package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Outcome representa um resultado possível do giro (casa da roleta ou segmento)
// PayoutRatio: 35 significa 35:1
// Color: só para exibição
// Weight: usado apenas pela política de sorteio ponderada
type Outcome struct {
	ID          string          `json:"id"`
	PayoutRatio decimal.Decimal `json:"payoutRatio"`
	Color       string          `json:"color,omitempty"`
	Weight      int             `json:"weight,omitempty"`
}

// OutcomeSet é o conjunto fixo e imutável de outcomes de uma rodada
type OutcomeSet struct {
	items []Outcome
	index map[string]int
}

// NewOutcomeSet valida e cria um conjunto de outcomes
// Rejeita conjunto vazio, ids vazios/duplicados, ratio ou peso negativos
func NewOutcomeSet(outcomes []Outcome) (*OutcomeSet, error) {
	if len(outcomes) == 0 {
		return nil, fmt.Errorf("outcome set: empty")
	}
	set := &OutcomeSet{
		items: make([]Outcome, 0, len(outcomes)),
		index: make(map[string]int, len(outcomes)),
	}
	for _, o := range outcomes {
		if o.ID == "" {
			return nil, fmt.Errorf("outcome set: empty id")
		}
		if _, dup := set.index[o.ID]; dup {
			return nil, fmt.Errorf("outcome set: duplicate id %q", o.ID)
		}
		if o.PayoutRatio.IsNegative() {
			return nil, fmt.Errorf("outcome set: negative payout ratio for %q", o.ID)
		}
		if o.Weight < 0 {
			return nil, fmt.Errorf("outcome set: negative weight for %q", o.ID)
		}
		set.index[o.ID] = len(set.items)
		set.items = append(set.items, o)
	}
	return set, nil
}

func (s *OutcomeSet) Get(id string) (Outcome, bool) {
	i, ok := s.index[id]
	if !ok {
		return Outcome{}, false
	}
	return s.items[i], true
}

func (s *OutcomeSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *OutcomeSet) Len() int { return len(s.items) }

// Outcomes retorna uma cópia na ordem original
func (s *OutcomeSet) Outcomes() []Outcome {
	out := make([]Outcome, len(s.items))
	copy(out, s.items)
	return out
}

// PayoutRatios retorna uma cópia do mapa id -> ratio, entrada do engine de liquidação
func (s *OutcomeSet) PayoutRatios() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.items))
	for _, o := range s.items {
		out[o.ID] = o.PayoutRatio
	}
	return out
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// PocketColor retorna a cor tradicional da casa da roleta
func PocketColor(id string) string {
	if id == "0" || id == "00" {
		return "green"
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return ""
	}
	if redNumbers[n] {
		return "red"
	}
	return "black"
}

func rouletteSet(ids []string) *OutcomeSet {
	ratio := decimal.NewFromInt(35)
	out := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		out = append(out, Outcome{ID: id, PayoutRatio: ratio, Color: PocketColor(id), Weight: 1})
	}
	set, err := NewOutcomeSet(out)
	if err != nil {
		panic(err) // conjunto estático, só falha por bug
	}
	return set
}

// AmericanRoulette: 0, 00 e 1..36, todas pagando 35:1
func AmericanRoulette() *OutcomeSet {
	ids := []string{"0", "00"}
	for i := 1; i <= 36; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return rouletteSet(ids)
}

// EuropeanRoulette: 0..36, todas pagando 35:1
func EuropeanRoulette() *OutcomeSet {
	ids := make([]string, 0, 37)
	for i := 0; i <= 36; i++ {
		ids = append(ids, strconv.Itoa(i))
	}
	return rouletteSet(ids)
}

// TokenWheel é a roda de segmentos de tokens com pesos (probabilidade por segmento)
func TokenWheel() *OutcomeSet {
	set, err := NewOutcomeSet([]Outcome{
		{ID: "bust", PayoutRatio: decimal.Zero, Color: "gray", Weight: 30},
		{ID: "x1", PayoutRatio: decimal.NewFromInt(1), Color: "blue", Weight: 28},
		{ID: "x2", PayoutRatio: decimal.NewFromInt(2), Color: "green", Weight: 20},
		{ID: "x3", PayoutRatio: decimal.NewFromInt(3), Color: "yellow", Weight: 12},
		{ID: "x5", PayoutRatio: decimal.NewFromInt(5), Color: "orange", Weight: 6},
		{ID: "x10", PayoutRatio: decimal.NewFromInt(10), Color: "red", Weight: 3},
		{ID: "x25", PayoutRatio: decimal.NewFromInt(25), Color: "purple", Weight: 1},
	})
	if err != nil {
		panic(err)
	}
	return set
}

// OutcomeSetByName resolve o nome configurado (OUTCOME_SET) para um conjunto
func OutcomeSetByName(name string) (*OutcomeSet, error) {
	switch name {
	case "", "american":
		return AmericanRoulette(), nil
	case "european":
		return EuropeanRoulette(), nil
	case "token-wheel":
		return TokenWheel(), nil
	default:
		return nil, fmt.Errorf("unknown outcome set %q", name)
	}
}
