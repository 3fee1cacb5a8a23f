package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/api-gateway/proxy"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("api-gateway", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "gateway_requests_total", Help: "requisições por rota"}, []string{"route"})
	prometheus.MustRegister(requests)

	// targets
	routes := []proxy.Route{
		{Prefix: "/api/game", Target: cfg.GameURL},               // game-service
		{Prefix: "/api/wallet", Target: cfg.WalletURL},           // wallet-service
		{Prefix: "/api/leaderboard", Target: cfg.LeaderboardURL}, // leaderboard-service
		{Prefix: "/api/trivia", Target: cfg.TriviaURL},           // trivia-service
	}
	h, err := proxy.NewHandler(log, routes, func(prefix string) { requests.WithLabelValues(prefix).Inc() })
	if err != nil {
		log.Fatal("gateway routes", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("api-gateway listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("gateway failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
