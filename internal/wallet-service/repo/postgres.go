package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
)

var ErrNotFound = errors.New("not found")

// Rules são os parâmetros de saldo vindos da config
type Rules struct {
	StartingBalance int64
	DailyFloor      int64
	Location        *time.Location
}

type Wallet struct {
	ID            string
	UserID        string
	Balance       int64
	Highest       int64
	TotalWinnings int64
	TotalSpins    int64
	LastResetDate string
}

// Postgres implementa operações de carteira em banco
type Postgres struct {
	db    *sql.DB
	rules Rules
	now   func() time.Time
}

func NewPostgres(db *sql.DB, rules Rules) *Postgres {
	if rules.Location == nil {
		rules.Location = time.UTC
	}
	return &Postgres{db: db, rules: rules, now: time.Now}
}

func (p *Postgres) today() string { return dailyfloor.Today(p.now(), p.rules.Location) }

const selectWalletForUpdate = `
	SELECT id, balance_tokens, highest_tokens, total_winnings, total_spins,
	       COALESCE(to_char(last_reset_date, 'YYYY-MM-DD'), '')
	FROM wallets WHERE user_id=$1 FOR UPDATE`

func scanWallet(row *sql.Row, userID string) (Wallet, error) {
	w := Wallet{UserID: userID}
	err := row.Scan(&w.ID, &w.Balance, &w.Highest, &w.TotalWinnings, &w.TotalSpins, &w.LastResetDate)
	return w, err
}

// GetOrCreateWallet retorna a carteira do usuário, criando com o saldo inicial se não existir.
// Aplica o piso diário na mesma transação (lock pessimista na linha).
func (p *Postgres) GetOrCreateWallet(ctx context.Context, userID string) (Wallet, dailyfloor.Result, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Wallet{}, 0, err
	}
	defer tx.Rollback()

	today := p.today()
	// ON CONFLICT evita corrida entre dois primeiros acessos do mesmo usuário
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wallets(id, user_id, balance_tokens, highest_tokens, last_reset_date, version)
		VALUES($1,$2,$3,$3,$4,1)
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.New().String(), userID, p.rules.StartingBalance, today); err != nil {
		return Wallet{}, 0, fmt.Errorf("create wallet: %w", err)
	}

	w, err := scanWallet(tx.QueryRowContext(ctx, selectWalletForUpdate, userID), userID)
	if err != nil {
		return Wallet{}, 0, fmt.Errorf("load wallet: %w", err)
	}

	res, err := p.applyFloor(ctx, tx, &w, today)
	if err != nil {
		return Wallet{}, 0, err
	}

	if err = tx.Commit(); err != nil {
		return Wallet{}, 0, err
	}
	return w, res, nil
}

// applyFloor roda dentro da transação com a linha travada
func (p *Postgres) applyFloor(ctx context.Context, tx *sql.Tx, w *Wallet, today string) (dailyfloor.Result, error) {
	before := w.Balance
	next, res := dailyfloor.Apply(dailyfloor.State{Balance: w.Balance, LastResetDate: w.LastResetDate}, today, p.rules.DailyFloor)
	if res == dailyfloor.AlreadyApplied {
		return res, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance_tokens=$1, highest_tokens=GREATEST(highest_tokens,$1), last_reset_date=$2,
		    version=version+1, updated_at=now()
		WHERE id=$3`, next.Balance, next.LastResetDate, w.ID); err != nil {
		return 0, fmt.Errorf("stamp daily floor: %w", err)
	}

	if res == dailyfloor.Raised {
		if _, err := tx.ExecContext(ctx, `INSERT INTO wallet_ledger(wallet_id, operation_type, amount_tokens, description)
			VALUES($1,'DAILY_FLOOR',$2,$3)`, w.ID, next.Balance-before, "daily-floor:"+today); err != nil {
			return 0, fmt.Errorf("ledger daily floor: %w", err)
		}
		if next.Balance > w.Highest {
			w.Highest = next.Balance
		}
	}

	w.Balance = next.Balance
	w.LastResetDate = next.LastResetDate
	return res, nil
}

// ApplySettlement soma o resultado líquido da rodada ao saldo.
// Idempotente por round id: segunda tentativa devolve ErrDuplicateSettlement sem alterar nada.
func (p *Postgres) ApplySettlement(ctx context.Context, rec domain.SettlementRecord) (Wallet, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Wallet{}, err
	}
	defer tx.Rollback()

	w, err := scanWallet(tx.QueryRowContext(ctx, selectWalletForUpdate, rec.UserID), rec.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Wallet{}, ErrNotFound
	} else if err != nil {
		return Wallet{}, fmt.Errorf("load wallet: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM wallet_ledger WHERE round_id=$1 AND operation_type='SETTLEMENT'`, rec.RoundID).Scan(&exists)
	if err == nil {
		return w, domain.ErrDuplicateSettlement
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Wallet{}, err
	}

	next := w.Balance + rec.NetResult
	if next < 0 {
		return Wallet{}, fmt.Errorf("round %s would leave balance %d: %w", rec.RoundID, next, domain.ErrInsufficientBalance)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance_tokens=$1, highest_tokens=GREATEST(highest_tokens,$1),
		    total_winnings=total_winnings+$2, total_spins=total_spins+1,
		    version=version+1, updated_at=now()
		WHERE id=$3`, next, rec.ActualPayout, w.ID); err != nil {
		return Wallet{}, err
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO wallet_ledger(wallet_id, operation_type, amount_tokens, description, round_id)
		VALUES($1,'SETTLEMENT',$2,$3,$4)`,
		w.ID, rec.NetResult, "settle:"+rec.OutcomeID, rec.RoundID); err != nil {
		if isUniqueViolation(err) {
			return w, domain.ErrDuplicateSettlement
		}
		return Wallet{}, err
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return w, domain.ErrDuplicateSettlement
		}
		return Wallet{}, err
	}

	w.Balance = next
	if next > w.Highest {
		w.Highest = next
	}
	w.TotalWinnings += rec.ActualPayout
	w.TotalSpins++
	return w, nil
}

// SweepDailyFloor aplica o piso em todas as carteiras ainda não carimbadas hoje.
// Retorna quantas tiveram saldo elevado.
func (p *Postgres) SweepDailyFloor(ctx context.Context) (int, error) {
	users, err := p.staleUsers(ctx, p.today())
	if err != nil {
		return 0, err
	}

	raised := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return raised, err
		}
		_, res, err := p.GetOrCreateWallet(ctx, u)
		if err != nil {
			return raised, fmt.Errorf("daily floor for %s: %w", u, err)
		}
		if res == dailyfloor.Raised {
			raised++
		}
	}
	return raised, nil
}

func (p *Postgres) staleUsers(ctx context.Context, today string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT user_id FROM wallets WHERE last_reset_date IS NULL OR last_reset_date < $1`, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
