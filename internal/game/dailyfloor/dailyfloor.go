package dailyfloor

import "time"

const dateLayout = "2006-01-02"

// State é a parte do perfil que o piso diário lê e escreve
// LastResetDate no formato YYYY-MM-DD; vazio = nunca resetou
type State struct {
	Balance       int64
	LastResetDate string
}

type Result int

const (
	// AlreadyApplied: já rodou hoje, nada muda
	AlreadyApplied Result = iota
	// Stamped: data carimbada, saldo já estava no piso ou acima
	Stamped
	// Raised: saldo levado exatamente ao piso
	Raised
)

func (r Result) String() string {
	switch r {
	case Stamped:
		return "stamped"
	case Raised:
		return "raised"
	default:
		return "already_applied"
	}
}

// Apply roda no máximo uma vez por dia por usuário e nunca reduz saldo
func Apply(s State, today string, floor int64) (State, Result) {
	if s.LastResetDate != "" && s.LastResetDate >= today {
		return s, AlreadyApplied
	}
	s.LastResetDate = today
	if s.Balance < floor {
		s.Balance = floor
		return s, Raised
	}
	return s, Stamped
}

// Today formata a data de calendário no fuso configurado
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(dateLayout)
}
