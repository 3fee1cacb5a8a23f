package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper aplica o piso diário em lote
type Sweeper interface {
	SweepDailyFloor(ctx context.Context) (int, error)
}

// Scheduler roda a varredura do piso diário no fuso configurado
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     *zap.Logger
	onSweep func(raised int, err error)
}

func NewScheduler(sweeper Sweeper, loc *time.Location, log *zap.Logger, onSweep func(raised int, err error)) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		sweeper: sweeper,
		log:     log,
		onSweep: onSweep,
	}
}

// Start registra a varredura no spec informado (ex: "0 0 * * *") e inicia o cron
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("daily floor cron %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("daily floor scheduler started", zap.String("spec", spec))
	return nil
}

// RunOnce executa uma varredura imediata
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	raised, err := s.sweeper.SweepDailyFloor(ctx)
	if err != nil {
		s.log.Error("daily floor sweep", zap.Int("raised", raised), zap.Error(err))
	} else {
		s.log.Info("daily floor sweep done", zap.Int("raised", raised), zap.Duration("took", time.Since(start)))
	}
	if s.onSweep != nil {
		s.onSweep(raised, err)
	}
}

// Stop espera jobs em andamento terminarem
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("daily floor scheduler stopped")
}
