package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game/dailyfloor"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/db"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
	whttp "github.com/radieske/trivia-roulette-platform/internal/wallet-service/http"
	"github.com/radieske/trivia-roulette-platform/internal/wallet-service/jobs"
	wrepo "github.com/radieske/trivia-roulette-platform/internal/wallet-service/repo"
)

func main() {
	cfg := config.Load()

	// Inicializa logger estruturado
	log, err := logger.New("wallet-service", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service",
		zap.Int64("starting_balance", cfg.StartingBalance),
		zap.Int64("daily_floor", cfg.DailyFloor),
		zap.String("timezone", cfg.Timezone.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conexão com Postgres para operações de carteira
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Métricas
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wallet_settlements_total", Help: "liquidações recebidas por status"}, []string{"status"})
	floors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wallet_daily_floor_total", Help: "aplicações do piso diário por resultado"}, []string{"result"})
	sweeps := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wallet_daily_floor_sweeps_total", Help: "varreduras do piso diário"}, []string{"outcome"})
	prometheus.MustRegister(settlements, floors, sweeps)

	// Instancia repositório e servidor HTTP da wallet
	repo := wrepo.NewPostgres(pg, wrepo.Rules{
		StartingBalance: cfg.StartingBalance,
		DailyFloor:      cfg.DailyFloor,
		Location:        cfg.Timezone,
	})
	api := whttp.NewServer(log, repo, whttp.Hooks{
		OnSettlement: func(status string) { settlements.WithLabelValues(status).Inc() },
		OnDailyFloor: func(res dailyfloor.Result) { floors.WithLabelValues(res.String()).Inc() },
	})

	// Varredura diária do piso
	sched := jobs.NewScheduler(repo, cfg.Timezone, log, func(raised int, err error) {
		if err != nil {
			sweeps.WithLabelValues("error").Inc()
			return
		}
		sweeps.WithLabelValues("ok").Inc()
		floors.WithLabelValues(dailyfloor.Raised.String()).Add(float64(raised))
	})
	if err := sched.Start(ctx, cfg.DailyFloorCron); err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, repo.Ping)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Servidor HTTP público (API de wallet)
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort, // ex: 8082
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("api listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api srv", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
