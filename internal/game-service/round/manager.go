package round

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	"github.com/radieske/trivia-roulette-platform/internal/game/ledger"
	"github.com/radieske/trivia-roulette-platform/internal/game/outcomes"
	"github.com/radieske/trivia-roulette-platform/internal/game/settlement"
	"github.com/radieske/trivia-roulette-platform/internal/game/trivia"
)

var (
	// ErrSettlementPending: rodada calculada mas ainda não persistida; o próximo spin reaplica
	ErrSettlementPending = errors.New("settlement pending")
	ErrWalletUnavailable = errors.New("wallet unavailable")
	ErrTriviaUnavailable = errors.New("trivia unavailable")
	// ErrQuestionNotIssued: a pergunta respondida não foi a entregue para a rodada atual
	ErrQuestionNotIssued = errors.New("question not issued for this round")
)

// Wallet é o balance store (wallet-service ou memstore)
type Wallet interface {
	Balance(ctx context.Context, userID string) (int64, error)
	ApplySettlement(ctx context.Context, rec domain.SettlementRecord) error
}

// Trivia sorteia perguntas e avalia a resposta livre
type Trivia interface {
	Random(ctx context.Context, topic string) (trivia.Question, error)
	Evaluate(ctx context.Context, questionID, answer string) (bool, error)
}

// Publisher grava o registro no log de giros
type Publisher interface {
	PublishRoundSettled(ctx context.Context, rec domain.SettlementRecord) error
}

// Answer vazio (sem QuestionID) significa rodada sem trivia
type Answer struct {
	QuestionID string
	Text       string
}

// Hooks para métricas (opcionais)
type Hooks struct {
	OnBetRejected func(reason string)
	OnSettled     func(rec domain.SettlementRecord)
	OnPending     func()
}

type View struct {
	RoundID    string
	State      string
	Wagers     domain.WagerMap
	TotalStake int64
	Balance    int64
	Pending    bool
	QuestionID string
}

type session struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	pending  *domain.SettlementRecord
	// pergunta entregue para a rodada; vale para uma única resposta
	question string
}

// Manager é o adaptador entre o núcleo puro (ledger + engine) e os colaboradores com I/O.
// Um ledger por usuário; spin e liquidação rodam sob o mutex da sessão.
type Manager struct {
	log    *zap.Logger
	source outcomes.Source
	engine *settlement.Engine
	wallet Wallet
	trivia Trivia
	publ   Publisher
	hooks  Hooks

	now            func() time.Time
	ledgerOpts     []ledger.Option
	persistTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(m *Manager) { m.ledgerOpts = append(m.ledgerOpts, opts...) }
}

func WithHooks(h Hooks) Option { return func(m *Manager) { m.hooks = h } }

func NewManager(log *zap.Logger, source outcomes.Source, engine *settlement.Engine, wallet Wallet, tr Trivia, publ Publisher, opts ...Option) *Manager {
	m := &Manager{
		log:            log,
		source:         source,
		engine:         engine,
		wallet:         wallet,
		trivia:         tr,
		publ:           publ,
		now:            time.Now,
		persistTimeout: 5 * time.Second,
		sessions:       map[string]*session{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Outcomes() *domain.OutcomeSet { return m.source.Outcomes() }

func (m *Manager) session(userID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &session{ledger: ledger.New(m.source.Outcomes(), m.ledgerOpts...)}
		m.sessions[userID] = s
	}
	return s
}

func (m *Manager) balance(ctx context.Context, userID string) (int64, error) {
	bal, err := m.wallet.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWalletUnavailable, err)
	}
	return bal, nil
}

// PlaceBet altera a aposta em um outcome checando o saldo atual da carteira
func (m *Manager) PlaceBet(ctx context.Context, userID, outcomeID string, delta int64) (View, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, err := m.balance(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if _, err := s.ledger.PlaceBet(outcomeID, delta, bal); err != nil {
		m.rejected(err)
		return View{}, err
	}
	return m.view(s, bal), nil
}

// ClearBets abandona a rodada (só antes do spin)
func (m *Manager) ClearBets(ctx context.Context, userID string) (View, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ledger.ClearBets(); err != nil {
		return View{}, err
	}
	bal, err := m.balance(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return m.view(s, bal), nil
}

func (m *Manager) Current(ctx context.Context, userID string) (View, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, err := m.balance(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return m.view(s, bal), nil
}

// Question sorteia a pergunta da rodada atual. Pedir outra substitui a anterior.
func (m *Manager) Question(ctx context.Context, userID, topic string) (trivia.Question, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if st := s.ledger.State(); st != ledger.Accepting {
		return trivia.Question{}, fmt.Errorf("question in state %s: %w", st, domain.ErrInvalidRoundState)
	}
	q, err := m.trivia.Random(ctx, topic)
	if errors.Is(err, trivia.ErrUnknownQuestion) {
		return trivia.Question{}, err
	} else if err != nil {
		return trivia.Question{}, fmt.Errorf("%w: %v", ErrTriviaUnavailable, err)
	}
	s.question = q.ID
	return q.Public(), nil
}

// Spin trava o ledger, sorteia, liquida e persiste.
// Se existe liquidação pendente, reaplica o mesmo registro sem recalcular.
func (m *Manager) Spin(ctx context.Context, userID string, ans Answer) (domain.SettlementRecord, error) {
	s := m.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		m.log.Info("retrying pending settlement", zap.String("round_id", s.pending.RoundID), zap.String("user_id", userID))
		return m.finish(ctx, s, *s.pending)
	}

	bal, err := m.balance(ctx, userID)
	if err != nil {
		return domain.SettlementRecord{}, err
	}

	// trivia antes do lock: falha aqui deixa a rodada aberta pra nova tentativa
	mod := domain.ModifierAbsent
	if ans.QuestionID != "" {
		if ans.QuestionID != s.question {
			return domain.SettlementRecord{}, fmt.Errorf("question %q: %w", ans.QuestionID, ErrQuestionNotIssued)
		}
		correct, err := m.trivia.Evaluate(ctx, ans.QuestionID, ans.Text)
		if errors.Is(err, trivia.ErrUnknownQuestion) {
			s.question = ""
			return domain.SettlementRecord{}, err
		} else if err != nil {
			// serviço fora: a pergunta continua valendo pra nova tentativa
			return domain.SettlementRecord{}, fmt.Errorf("%w: %v", ErrTriviaUnavailable, err)
		}
		// veredito dado: a mesma pergunta não vale de novo
		s.question = ""
		mod = trivia.Gate(true, correct)
	}

	snap, err := s.ledger.Lock(bal)
	if err != nil {
		m.rejected(err)
		return domain.SettlementRecord{}, err
	}

	drawn := m.source.Draw()
	rec, err := m.engine.Settle(settlement.Input{
		RoundID:   snap.RoundID,
		UserID:    userID,
		Wagers:    snap.Wagers,
		OutcomeID: drawn,
		Ratios:    m.source.Outcomes().PayoutRatios(),
		Balance:   bal,
		Modifier:  mod,
		At:        m.now().UTC(),
	})
	if err != nil {
		// nada foi aplicado na carteira; descarta a rodada
		m.log.Error("settle failed", zap.String("round_id", snap.RoundID), zap.String("user_id", userID), zap.Error(err))
		if rerr := s.ledger.Reset(); rerr != nil {
			m.log.Error("ledger reset", zap.Error(rerr))
		}
		return domain.SettlementRecord{}, err
	}

	s.pending = &rec
	s.question = ""
	return m.finish(ctx, s, rec)
}

// finish persiste saldo e log; mantém o registro pendente até os dois darem certo
func (m *Manager) finish(ctx context.Context, s *session, rec domain.SettlementRecord) (domain.SettlementRecord, error) {
	// rodada travada precisa ir até o fim mesmo se o cliente cancelar
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.persistTimeout)
	defer cancel()

	err := m.wallet.ApplySettlement(pctx, rec)
	if errors.Is(err, domain.ErrDuplicateSettlement) {
		m.log.Warn("settlement already applied", zap.String("round_id", rec.RoundID))
	} else if err != nil {
		m.pendingFailed(rec, "wallet", err)
		return rec, fmt.Errorf("%w: %v", ErrSettlementPending, err)
	}

	if err := m.publ.PublishRoundSettled(pctx, rec); err != nil {
		m.pendingFailed(rec, "spin_log", err)
		return rec, fmt.Errorf("%w: %v", ErrSettlementPending, err)
	}

	s.pending = nil
	if err := s.ledger.Reset(); err != nil {
		m.log.Error("ledger reset", zap.String("round_id", rec.RoundID), zap.Error(err))
	}

	m.log.Info("round settled",
		zap.String("round_id", rec.RoundID),
		zap.String("user_id", rec.UserID),
		zap.String("outcome", rec.OutcomeID),
		zap.String("modifier", rec.Modifier.String()),
		zap.Int64("stake", rec.TotalStake),
		zap.Int64("payout", rec.ActualPayout),
		zap.Int64("balance_after", rec.BalanceAfter))
	if m.hooks.OnSettled != nil {
		m.hooks.OnSettled(rec)
	}
	return rec, nil
}

func (m *Manager) pendingFailed(rec domain.SettlementRecord, stage string, err error) {
	m.log.Error("settlement persistence failed",
		zap.String("stage", stage),
		zap.String("round_id", rec.RoundID),
		zap.String("user_id", rec.UserID),
		zap.Error(err))
	if m.hooks.OnPending != nil {
		m.hooks.OnPending()
	}
}

func (m *Manager) rejected(err error) {
	if m.hooks.OnBetRejected == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		m.hooks.OnBetRejected("insufficient_balance")
	case errors.Is(err, domain.ErrInvalidOutcome):
		m.hooks.OnBetRejected("invalid_outcome")
	case errors.Is(err, domain.ErrInvalidRoundState):
		m.hooks.OnBetRejected("invalid_state")
	case errors.Is(err, domain.ErrNoWagers):
		m.hooks.OnBetRejected("no_wagers")
	default:
		m.hooks.OnBetRejected("other")
	}
}

// view deve ser chamado com s.mu travado
func (m *Manager) view(s *session, bal int64) View {
	return View{
		RoundID:    s.ledger.RoundID(),
		State:      s.ledger.State().String(),
		Wagers:     s.ledger.Wagers(),
		TotalStake: s.ledger.TotalStake(),
		Balance:    bal,
		Pending:    s.pending != nil,
		QuestionID: s.question,
	}
}
