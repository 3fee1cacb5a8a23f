package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/game/outcomes"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
	"github.com/radieske/trivia-roulette-platform/internal/trivia-service/bank"
	thttp "github.com/radieske/trivia-roulette-platform/internal/trivia-service/http"
)

var (
	// Métricas Prometheus de perguntas servidas e respostas avaliadas
	questionsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_questions_served_total",
		Help: "Perguntas sorteadas por tópico",
	}, []string{"topic"})
	answersEvaluated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_answers_evaluated_total",
		Help: "Respostas avaliadas por resultado",
	}, []string{"correct"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("trivia-service", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(questionsServed, answersEvaluated)

	b, err := bank.Default(outcomes.NewRand(cfg.RNGSeed))
	if err != nil {
		log.Fatal("question bank", zap.Error(err))
	}
	log.Info("question bank loaded", zap.Strings("topics", b.Topics()))

	api := thttp.NewServer(log, b, thttp.Hooks{
		OnServed:    func(topic string) { questionsServed.WithLabelValues(topic).Inc() },
		OnEvaluated: func(ok bool) { answersEvaluated.WithLabelValues(strconv.FormatBool(ok)).Inc() },
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort, // ex: 8081
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("trivia api listening",
			zap.String("addr", apiSrv.Addr),
			zap.String("paths", "/trivia/questions/random,/trivia/topics,/trivia/evaluate"))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
