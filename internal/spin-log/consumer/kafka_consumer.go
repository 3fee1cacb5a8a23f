package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/pkg/contracts/events"
)

// Reader é satisfeito por *kafka.Reader (commit explícito)
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Repo interface {
	InsertSpin(ctx context.Context, e events.RoundSettled) (bool, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type DLQ interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var errInvalidEvent = errors.New("invalid round_settled event")

// Processor consome rodadas liquidadas, grava no log de giros e invalida o leaderboard.
// Mensagens que não decodificam ou não persistem após as tentativas vão para a DLQ.
type Processor struct {
	Log    *zap.Logger
	Reader Reader
	Repo   Repo
	Cache  Invalidator
	DLQ    DLQ // opcional

	Retries int           // tentativas extras de persistência
	Backoff time.Duration // multiplicado pela tentativa

	OnConsumed     func()       // métricas (counter++)
	OnPersist      func()       // métricas
	OnDuplicate    func()       // métricas
	OnDeadLetter   func()       // métricas
	OnError        func(string) // métricas por fase
	OnAfterPersist func(ev events.RoundSettled)
}

// Run inicia o loop principal; só commita o offset depois de persistir ou mandar pra DLQ
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			if !sleep(ctx, 500*time.Millisecond) {
				return ctx.Err()
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		if err := p.handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// sem commit e sem DLQ: para o worker pra mensagem ser relida no restart
			return fmt.Errorf("handle offset %d: %w", m.Offset, err)
		}
		if err := p.Reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
			p.fail("commit")
		}
	}
}

// handle devolve erro só quando a mensagem não foi nem gravada nem enviada à DLQ
func (p *Processor) handle(ctx context.Context, m kafka.Message) error {
	var ev events.RoundSettled
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.fail("decode")
		return p.deadLetter(ctx, m, err)
	}
	if ev.RoundID == "" || ev.UserID == "" {
		p.fail("decode")
		return p.deadLetter(ctx, m, errInvalidEvent)
	}
	if ev.Version > events.RoundSettledVersion {
		p.Log.Warn("newer event version", zap.Int("version", ev.Version), zap.String("round_id", ev.RoundID))
	}

	inserted, err := p.insert(ctx, ev)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		p.Log.Error("spin insert failed", zap.String("round_id", ev.RoundID), zap.Error(err))
		p.fail("db_insert")
		return p.deadLetter(ctx, m, err)
	}
	if !inserted {
		p.Log.Info("spin already logged", zap.String("round_id", ev.RoundID))
		if p.OnDuplicate != nil {
			p.OnDuplicate()
		}
		return nil
	}
	if p.OnPersist != nil {
		p.OnPersist()
	}

	// falha no cache não bloqueia: o TTL do leaderboard resolve
	if err := p.Cache.Invalidate(ctx); err != nil {
		p.Log.Warn("leaderboard invalidate failed", zap.Error(err))
		p.fail("cache")
	}
	if p.OnAfterPersist != nil {
		p.OnAfterPersist(ev)
	}
	return nil
}

func (p *Processor) insert(ctx context.Context, ev events.RoundSettled) (bool, error) {
	inserted, err := p.Repo.InsertSpin(ctx, ev)
	for i := 0; err != nil && i < p.Retries; i++ {
		if !sleep(ctx, p.Backoff*time.Duration(i+1)) {
			return false, ctx.Err()
		}
		inserted, err = p.Repo.InsertSpin(ctx, ev)
	}
	return inserted, err
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) error {
	if p.DLQ == nil {
		p.Log.Error("dropping message without dlq", zap.Int64("offset", m.Offset), zap.Error(cause))
		return nil
	}
	dl := kafka.Message{
		Key:     m.Key,
		Value:   m.Value,
		Time:    time.Now(),
		Headers: []kafka.Header{{Key: "error", Value: []byte(cause.Error())}},
	}
	if err := p.DLQ.WriteMessages(ctx, dl); err != nil {
		p.fail("dlq")
		return err
	}
	if p.OnDeadLetter != nil {
		p.OnDeadLetter()
	}
	return nil
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
