package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	ghttp "github.com/radieske/trivia-roulette-platform/internal/game-service/http"
	kpub "github.com/radieske/trivia-roulette-platform/internal/game-service/producer"
	"github.com/radieske/trivia-roulette-platform/internal/game-service/round"
	triviacli "github.com/radieske/trivia-roulette-platform/internal/game-service/trivia"
	"github.com/radieske/trivia-roulette-platform/internal/game-service/wallet"
	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	"github.com/radieske/trivia-roulette-platform/internal/game/memstore"
	"github.com/radieske/trivia-roulette-platform/internal/game/outcomes"
	"github.com/radieske/trivia-roulette-platform/internal/game/settlement"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/kafka"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
	"github.com/radieske/trivia-roulette-platform/internal/trivia-service/bank"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("game-service", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mesa: conjunto de outcomes, política de sorteio e tabela de multiplicadores
	set, err := domain.OutcomeSetByName(cfg.OutcomeSet)
	if err != nil {
		log.Fatal("outcome set", zap.Error(err))
	}
	rng := outcomes.NewRand(cfg.RNGSeed)
	src, err := outcomes.New(cfg.OutcomePolicy, set, rng)
	if err != nil {
		log.Fatal("outcome source", zap.Error(err))
	}
	table, err := settlement.PayoutTableByName(cfg.PayoutVariant)
	if err != nil {
		log.Fatal("payout table", zap.Error(err))
	}
	engine, err := settlement.NewEngine(table.Override(cfg.PayoutAbsent, cfg.PayoutCorrect, cfg.PayoutIncorrect))
	if err != nil {
		log.Fatal("settlement engine", zap.Error(err))
	}
	t := engine.Table()
	log.Info("table configured",
		zap.String("outcome_set", cfg.OutcomeSet),
		zap.Int("outcomes", set.Len()),
		zap.String("policy", cfg.OutcomePolicy),
		zap.String("payout_absent", t.Absent.String()),
		zap.String("payout_correct", t.Correct.String()),
		zap.String("payout_incorrect", t.Incorrect.String()),
		zap.String("wallet_mode", cfg.WalletMode))

	// Métricas
	bets := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "game_bets_rejected_total", Help: "apostas/spins rejeitados por motivo"}, []string{"reason"})
	rounds := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "game_rounds_settled_total", Help: "rodadas liquidadas por modificador"}, []string{"modifier"})
	payouts := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_payout_tokens_total", Help: "fichas pagas"})
	stakes := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_stake_tokens_total", Help: "fichas apostadas"})
	pending := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_settlements_pending_total", Help: "liquidações que falharam ao persistir"})
	prometheus.MustRegister(bets, rounds, payouts, stakes, pending)

	// Colaboradores: memória (dev) ou wallet-service + trivia-service + kafka
	var (
		wal     round.Wallet
		tr      round.Trivia
		publ    round.Publisher
		history ghttp.History
	)
	switch cfg.WalletMode {
	case "memory":
		store := memstore.New(cfg.StartingBalance, cfg.DailyFloor, cfg.Timezone)
		b, err := bank.Default(outcomes.NewRand(cfg.RNGSeed))
		if err != nil {
			log.Fatal("question bank", zap.Error(err))
		}
		wal, tr, publ, history = store, b, store, store
	default:
		writer := kafka.NewWriter(cfg.KafkaBrokerList(), cfg.TopicRoundSettled)
		defer writer.Close()
		wal = wallet.New(cfg.WalletURL)
		tr = triviacli.New(cfg.TriviaURL)
		publ = kpub.NewKafkaPublisher(writer, cfg.TopicRoundSettled)
	}

	mgr := round.NewManager(log, src, engine, wal, tr, publ, round.WithHooks(round.Hooks{
		OnBetRejected: func(reason string) { bets.WithLabelValues(reason).Inc() },
		OnSettled: func(rec domain.SettlementRecord) {
			rounds.WithLabelValues(rec.Modifier.String()).Inc()
			payouts.Add(float64(rec.ActualPayout))
			stakes.Add(float64(rec.TotalStake))
		},
		OnPending: pending.Inc,
	}))
	api := ghttp.NewServer(log, mgr, ghttp.Info{Set: cfg.OutcomeSet, Policy: cfg.OutcomePolicy}, history)

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort, // ex: 8083
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("game-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
