package ledger

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

type State int

const (
	Accepting State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "locked"
	}
	return "accepting"
}

// Snapshot é a visão congelada das apostas entregue à liquidação
type Snapshot struct {
	RoundID    string
	Wagers     domain.WagerMap
	TotalStake int64
}

type Option func(*Ledger)

// WithRoundIDs troca o gerador de round id (padrão: uuid v4)
func WithRoundIDs(fn func() string) Option {
	return func(l *Ledger) { l.newRoundID = fn }
}

// Ledger mantém as apostas da rodada corrente de um usuário.
// Toda leitura-modificação-escrita do mapa acontece sob mu.
type Ledger struct {
	mu         sync.Mutex
	outcomes   *domain.OutcomeSet
	wagers     domain.WagerMap
	state      State
	roundID    string
	newRoundID func() string
}

func New(outcomes *domain.OutcomeSet, opts ...Option) *Ledger {
	l := &Ledger{
		outcomes:   outcomes,
		wagers:     domain.WagerMap{},
		newRoundID: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(l)
	}
	l.roundID = l.newRoundID()
	return l
}

// PlaceBet soma delta (positivo ou negativo) à aposta no outcome.
// A nova aposta nunca fica abaixo de zero. Se o total hipotético passar
// do saldo a operação é rejeitada e o mapa fica intacto.
func (l *Ledger) PlaceBet(outcomeID string, delta, currentBalance int64) (domain.WagerMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Accepting {
		return nil, fmt.Errorf("place bet in state %s: %w", l.state, domain.ErrInvalidRoundState)
	}
	if !l.outcomes.Contains(outcomeID) {
		return nil, fmt.Errorf("outcome %q: %w", outcomeID, domain.ErrInvalidOutcome)
	}
	if currentBalance < 0 {
		return nil, fmt.Errorf("balance %d: %w", currentBalance, domain.ErrInvalidStake)
	}

	old := l.wagers[outcomeID]
	// old+delta estouraria int64 antes do teste de saldo
	if delta > 0 && delta > currentBalance-old {
		return nil, fmt.Errorf("stake %d+%d exceeds balance %d: %w", old, delta, currentBalance, domain.ErrInsufficientBalance)
	}
	next := old + delta
	if next < 0 {
		next = 0
	}
	total := domain.TotalStake(l.wagers) - old + next
	if total > currentBalance {
		return nil, fmt.Errorf("total stake %d exceeds balance %d: %w", total, currentBalance, domain.ErrInsufficientBalance)
	}

	if next == 0 {
		delete(l.wagers, outcomeID)
	} else {
		l.wagers[outcomeID] = next
	}
	return l.wagers.Clone(), nil
}

// ClearBets esvazia as apostas (abandono da rodada); só enquanto Accepting
func (l *Ledger) ClearBets() (domain.WagerMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Accepting {
		return nil, fmt.Errorf("clear bets in state %s: %w", l.state, domain.ErrInvalidRoundState)
	}
	l.wagers = domain.WagerMap{}
	return domain.WagerMap{}, nil
}

func (l *Ledger) TotalStake() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.TotalStake(l.wagers)
}

// Lock trava a rodada para o giro. O saldo é reconferido aqui porque pode ter
// mudado desde a última aposta.
func (l *Ledger) Lock(currentBalance int64) (Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Accepting {
		return Snapshot{}, fmt.Errorf("lock in state %s: %w", l.state, domain.ErrInvalidRoundState)
	}
	total := domain.TotalStake(l.wagers)
	if total == 0 {
		return Snapshot{}, domain.ErrNoWagers
	}
	if total > currentBalance {
		return Snapshot{}, fmt.Errorf("total stake %d exceeds balance %d: %w", total, currentBalance, domain.ErrInsufficientBalance)
	}

	l.state = Locked
	return Snapshot{RoundID: l.roundID, Wagers: l.wagers.Clone(), TotalStake: total}, nil
}

// Reset fecha a rodada liquidada e abre a próxima com novo round id
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Locked {
		return fmt.Errorf("reset in state %s: %w", l.state, domain.ErrInvalidRoundState)
	}
	l.wagers = domain.WagerMap{}
	l.state = Accepting
	l.roundID = l.newRoundID()
	return nil
}

func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Ledger) RoundID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.roundID
}

func (l *Ledger) Wagers() domain.WagerMap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wagers.Clone()
}
