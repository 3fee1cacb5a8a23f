package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/trivia-roulette-platform/internal/shared/cache"
	"github.com/radieske/trivia-roulette-platform/internal/shared/config"
	"github.com/radieske/trivia-roulette-platform/internal/shared/db"
	"github.com/radieske/trivia-roulette-platform/internal/shared/kafka"
	"github.com/radieske/trivia-roulette-platform/internal/shared/logger"
	"github.com/radieske/trivia-roulette-platform/internal/shared/metrics"
	spincache "github.com/radieske/trivia-roulette-platform/internal/spin-log/cache"
	"github.com/radieske/trivia-roulette-platform/internal/spin-log/consumer"
	"github.com/radieske/trivia-roulette-platform/internal/spin-log/pubsub"
	"github.com/radieske/trivia-roulette-platform/internal/spin-log/repository"
	"github.com/radieske/trivia-roulette-platform/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("spin-log-worker", cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	repo := repository.NewPostgresRepo(pg)

	// Consumer group spin-log; DLQ para o que não decodifica ou não persiste
	reader := kafka.NewReader(cfg.KafkaBrokerList(), cfg.TopicRoundSettled, "spin-log")
	defer reader.Close()

	var dlq consumer.DLQ
	if cfg.TopicRoundSettledDLQ != "" {
		w := kafka.NewWriter(cfg.KafkaBrokerList(), cfg.TopicRoundSettledDLQ)
		defer w.Close()
		dlq = w
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "spin_log_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "spin_log_db_writes_total", Help: "giros gravados"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{Name: "spin_log_duplicates_total", Help: "round ids já gravados"})
	deadLetters := prometheus.NewCounter(prometheus.CounterOpts{Name: "spin_log_dead_letters_total", Help: "mensagens enviadas para a DLQ"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "spin_log_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, duplicates, deadLetters, errorsBy)

	// Broadcaster para o WebSocket do leaderboard-service via Redis Pub/Sub
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	proc := &consumer.Processor{
		Log:          log,
		Reader:       reader,
		Repo:         repo,
		Cache:        spincache.NewLeaderboardInvalidator(redisClient),
		DLQ:          dlq,
		Retries:      3,
		Backoff:      300 * time.Millisecond,
		OnConsumed:   consumed.Inc,
		OnPersist:    persist.Inc,
		OnDuplicate:  duplicates.Inc,
		OnDeadLetter: deadLetters.Inc,
		OnError:      func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após gravar, avisa os clientes WS (canal do usuário e "all")
		OnAfterPersist: func(ev events.RoundSettled) {
			b, _ := json.Marshal(pubsub.SpinUpdate{UserID: ev.UserID, Payload: ev})

			pctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.Publish(pctx, cfg.RedisPubSubChannel, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := repo.Ping(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	log.Info("spin-log-worker started",
		zap.String("consume", cfg.TopicRoundSettled),
		zap.String("dlq", cfg.TopicRoundSettledDLQ))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("spin-log-worker stopped")
}
