package domain

import (
	"fmt"
	"strings"
)

// Modifier é o sinal de acerto da trivia aplicado ao ganho bruto
type Modifier int

const (
	ModifierAbsent Modifier = iota // rodada sem pergunta
	ModifierCorrect
	ModifierIncorrect
)

func (m Modifier) String() string {
	switch m {
	case ModifierAbsent:
		return "absent"
	case ModifierCorrect:
		return "correct"
	case ModifierIncorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("modifier(%d)", int(m))
	}
}

// ParseModifier aceita "absent", "correct", "incorrect" (vazio = absent)
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absent":
		return ModifierAbsent, nil
	case "correct":
		return ModifierCorrect, nil
	case "incorrect":
		return ModifierIncorrect, nil
	default:
		return ModifierAbsent, fmt.Errorf("unknown modifier %q", s)
	}
}

// ModifierFromAnswer converte o resultado da trivia no modificador
func ModifierFromAnswer(answered, correct bool) Modifier {
	if !answered {
		return ModifierAbsent
	}
	if correct {
		return ModifierCorrect
	}
	return ModifierIncorrect
}

func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Modifier) UnmarshalText(b []byte) error {
	v, err := ParseModifier(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
