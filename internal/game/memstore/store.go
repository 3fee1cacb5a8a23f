package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

type account struct {
	state dailyfloor.State
}

// Store é a carteira em memória (WALLET_MODE=memory e testes).
// Mesmo contrato do wallet-service: saldo, liquidação idempotente por round id,
// piso diário e log de giros somente-append.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	settled  map[string]struct{}
	log      []domain.SettlementRecord

	starting int64
	floor    int64
	loc      *time.Location
	now      func() time.Time
}

func New(starting, floor int64, loc *time.Location) *Store {
	return &Store{
		accounts: map[string]*account{},
		settled:  map[string]struct{}{},
		starting: starting,
		floor:    floor,
		loc:      loc,
		now:      time.Now,
	}
}

// WithClock troca o relógio (testes)
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// getOrCreate deve ser chamado com mu travado
func (s *Store) getOrCreate(userID string) *account {
	a, ok := s.accounts[userID]
	if !ok {
		a = &account{state: dailyfloor.State{Balance: s.starting, LastResetDate: dailyfloor.Today(s.now(), s.loc)}}
		s.accounts[userID] = a
	}
	return a
}

// Balance retorna o saldo aplicando o piso diário na leitura
func (s *Store) Balance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.applyFloor(userID)
	return a.state.Balance, nil
}

// ApplyDailyFloor roda o piso diário explicitamente; segunda chamada no mesmo dia é no-op
func (s *Store) ApplyDailyFloor(_ context.Context, userID string) (dailyfloor.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.getOrCreate(userID)
	var res dailyfloor.Result
	a.state, res = dailyfloor.Apply(a.state, dailyfloor.Today(s.now(), s.loc), s.floor)
	return res, nil
}

// applyFloor deve ser chamado com mu travado
func (s *Store) applyFloor(userID string) *account {
	a := s.getOrCreate(userID)
	a.state, _ = dailyfloor.Apply(a.state, dailyfloor.Today(s.now(), s.loc), s.floor)
	return a
}

func (s *Store) ApplySettlement(_ context.Context, rec domain.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.settled[rec.RoundID]; dup {
		return fmt.Errorf("round %s: %w", rec.RoundID, domain.ErrDuplicateSettlement)
	}
	a := s.getOrCreate(rec.UserID)
	next := a.state.Balance + rec.NetResult
	if next < 0 {
		return fmt.Errorf("round %s: %w", rec.RoundID, domain.ErrInsufficientBalance)
	}
	a.state.Balance = next
	s.settled[rec.RoundID] = struct{}{}
	return nil
}

// PublishRoundSettled grava no log de giros; ignora round id repetido
func (s *Store) PublishRoundSettled(_ context.Context, rec domain.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.log {
		if r.RoundID == rec.RoundID {
			return nil
		}
	}
	s.log = append(s.log, rec)
	return nil
}

// Spins devolve o log de giros do usuário, mais recente primeiro
func (s *Store) Spins(userID string) []domain.SettlementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SettlementRecord, 0)
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].UserID == userID {
			out = append(out, s.log[i])
		}
	}
	return out
}
