package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	lcache "github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/cache"
	httpapi "github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/http"
	"github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/repo"
	"github.com/radieske/trivia-roulette-platform/internal/leaderboard-service/ws"
	"github.com/radieske/trivia-roulette-platform/internal/shared/cache"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/db"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New("leaderboard-service", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// métricas
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "leaderboard_cache_lookups_total", Help: "leituras do top por resultado"}, []string{"hit"})
	wsSent := prometheus.NewCounter(prometheus.CounterOpts{Name: "leaderboard_ws_messages_sent_total", Help: "mensagens WS enviadas"})
	prometheus.MustRegister(cacheLookups, wsSent)

	// hub WS alimentado pelo Pub/Sub do spin-log-worker
	hub := ws.NewHub(log, func(r *http.Request) bool { return true })
	hub.OnBroadcast = func(sent int) { wsSent.Add(float64(sent)) }
	if err := ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log); err != nil {
		log.Fatal("redis subscribe", zap.Error(err))
	}

	readRepo := &repo.ReadRepo{DB: pg}
	api := &httpapi.API{
		Log:      log,
		ReadRepo: readRepo,
		Cache:    lcache.New(redisClient),
		CacheTTL: cfg.LeaderboardCacheTTL,
		WS:       hub.HandleWS,
		OnCache:  func(hit bool) { cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc() },
	}

	// healthz: valida dependências críticas
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := readRepo.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health server started", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort, // ex: 8084
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("leaderboard api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
