package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

// PayoutTable mapeia o modificador da trivia para o multiplicador do ganho bruto
type PayoutTable struct {
	Absent    decimal.Decimal
	Correct   decimal.Decimal
	Incorrect decimal.Decimal
}

// TriviaPayout: sem pergunta paga metade, erro paga 30%
func TriviaPayout() PayoutTable {
	return PayoutTable{
		Absent:    decimal.RequireFromString("0.5"),
		Correct:   decimal.NewFromInt(1),
		Incorrect: decimal.RequireFromString("0.3"),
	}
}

// ClassicPayout é a variante sem trivia: rodada sem pergunta paga cheio
func ClassicPayout() PayoutTable {
	t := TriviaPayout()
	t.Absent = decimal.NewFromInt(1)
	return t
}

// PayoutTableByName resolve PAYOUT_VARIANT
func PayoutTableByName(name string) (PayoutTable, error) {
	switch name {
	case "", "trivia":
		return TriviaPayout(), nil
	case "classic":
		return ClassicPayout(), nil
	default:
		return PayoutTable{}, fmt.Errorf("unknown payout variant %q", name)
	}
}

// Override troca os multiplicadores informados (nil mantém o atual)
func (t PayoutTable) Override(absent, correct, incorrect *decimal.Decimal) PayoutTable {
	if absent != nil {
		t.Absent = *absent
	}
	if correct != nil {
		t.Correct = *correct
	}
	if incorrect != nil {
		t.Incorrect = *incorrect
	}
	return t
}

// Validate garante correct >= absent >= incorrect >= 0
func (t PayoutTable) Validate() error {
	if t.Incorrect.IsNegative() {
		return fmt.Errorf("payout table: incorrect multiplier %s is negative", t.Incorrect)
	}
	if t.Absent.LessThan(t.Incorrect) {
		return fmt.Errorf("payout table: absent %s below incorrect %s", t.Absent, t.Incorrect)
	}
	if t.Correct.LessThan(t.Absent) {
		return fmt.Errorf("payout table: correct %s below absent %s", t.Correct, t.Absent)
	}
	return nil
}

func (t PayoutTable) Multiplier(m domain.Modifier) (decimal.Decimal, error) {
	switch m {
	case domain.ModifierAbsent:
		return t.Absent, nil
	case domain.ModifierCorrect:
		return t.Correct, nil
	case domain.ModifierIncorrect:
		return t.Incorrect, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown modifier %s", m)
	}
}
