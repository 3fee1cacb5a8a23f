package settlement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

// Input carrega tudo que a liquidação precisa; tempo e round id vêm de fora
type Input struct {
	RoundID   string
	UserID    string
	Wagers    domain.WagerMap
	OutcomeID string
	Ratios    map[string]decimal.Decimal
	Balance   int64
	Modifier  domain.Modifier
	At        time.Time
}

// Engine calcula o resultado financeiro de uma rodada. Sem I/O e sem aleatoriedade.
type Engine struct {
	table PayoutTable
}

func NewEngine(table PayoutTable) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Engine{table: table}, nil
}

func (e *Engine) Table() PayoutTable { return e.table }

// Settle aplica: gross = floor(aposta no vencedor * (ratio + 1)),
// payout = floor(gross * multiplicador), net = payout - total apostado.
func (e *Engine) Settle(in Input) (domain.SettlementRecord, error) {
	if err := validate(in); err != nil {
		return domain.SettlementRecord{}, err
	}

	total := domain.TotalStake(in.Wagers)
	stakeOnWinner := in.Wagers[in.OutcomeID]

	var gross int64
	if stakeOnWinner > 0 {
		ratio := in.Ratios[in.OutcomeID]
		gross = decimal.NewFromInt(stakeOnWinner).
			Mul(ratio.Add(decimal.NewFromInt(1))).
			Floor().
			IntPart()
	}

	mult, err := e.table.Multiplier(in.Modifier)
	if err != nil {
		return domain.SettlementRecord{}, err
	}
	actual := decimal.NewFromInt(gross).Mul(mult).Floor().IntPart()

	net := actual - total
	after := in.Balance + net
	if after < 0 {
		// inalcançável com stake <= saldo; se acontecer é bug
		return domain.SettlementRecord{}, fmt.Errorf("settle round %s: negative balance %d", in.RoundID, after)
	}

	return domain.SettlementRecord{
		RoundID:       in.RoundID,
		UserID:        in.UserID,
		OutcomeID:     in.OutcomeID,
		Wagers:        in.Wagers.Clone(),
		TotalStake:    total,
		GrossWinnings: gross,
		Modifier:      in.Modifier,
		ActualPayout:  actual,
		NetResult:     net,
		BalanceBefore: in.Balance,
		BalanceAfter:  after,
		SettledAt:     in.At,
	}, nil
}

func validate(in Input) error {
	if _, ok := in.Ratios[in.OutcomeID]; !ok {
		return fmt.Errorf("drawn outcome %q: %w", in.OutcomeID, domain.ErrInvalidOutcome)
	}
	if in.Balance < 0 {
		return fmt.Errorf("balance %d: %w", in.Balance, domain.ErrInvalidStake)
	}
	for id, stake := range in.Wagers {
		if _, ok := in.Ratios[id]; !ok {
			return fmt.Errorf("wager on %q: %w", id, domain.ErrInvalidOutcome)
		}
		if stake < 0 {
			return fmt.Errorf("stake %d on %q: %w", stake, id, domain.ErrInvalidStake)
		}
	}
	if total := domain.TotalStake(in.Wagers); total > in.Balance {
		return fmt.Errorf("total stake %d exceeds balance %d: %w", total, in.Balance, domain.ErrInsufficientBalance)
	}
	return nil
}
