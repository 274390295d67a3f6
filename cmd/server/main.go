package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"sponsorreg/internal/authority"
	"sponsorreg/internal/chain"
	jwttoken "sponsorreg/internal/jwt_token"
	"sponsorreg/internal/ledger"
	"sponsorreg/internal/platform/config"
	"sponsorreg/internal/platform/httpserver"
	"sponsorreg/internal/platform/logger"
	"sponsorreg/internal/platform/metrics"
	platformredis "sponsorreg/internal/platform/redis"
	"sponsorreg/internal/registry/cache"
	"sponsorreg/internal/registry/handler"
	registrymetrics "sponsorreg/internal/registry/metrics"
	"sponsorreg/internal/registry/service"
	"sponsorreg/internal/registry/store"
	httptransport "sponsorreg/internal/transport/http"
	"sponsorreg/pkg/platform/audit"
	auditkafka "sponsorreg/pkg/platform/audit/publishers/kafka"
	auditmemory "sponsorreg/pkg/platform/audit/store/memory"
	auditworker "sponsorreg/pkg/platform/audit/worker"
	"sponsorreg/pkg/platform/circuit"
)

// main wires dependencies and keeps the server lifecycle in one errgroup.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	// Store: postgres when configured, in-memory otherwise.
	var (
		registryStore service.Store
		db            *sql.DB
	)
	if cfg.Postgres.URL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		registryStore = pg
		log.Info("using postgres store")
	} else {
		registryStore = store.NewInMemory()
		log.Warn("no postgres configured, agreements will not survive restarts")
	}

	// Optional Redis name cache in front of the store.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		registryStore = cache.New(registryStore, redisClient.Client, cache.WithLogger(log))
		log.Info("name cache enabled")
	}

	// Authority verification: external service when configured.
	var verifier service.AuthorityVerifier
	if cfg.AuthorityURL != "" {
		verifier = authority.NewBreaking(
			authority.NewHTTPVerifier(cfg.AuthorityURL, 5*time.Second),
			circuit.New("authority-verify"),
			log,
		)
	} else {
		verifier = authority.AllowAll{}
		log.Warn("no authority verifier configured, accepting every principal")
	}

	// The transfer facility stands in for a chain client; principals get an
	// opening balance so fees can be charged locally.
	transfers := ledger.NewInMemory(ledger.WithDefaultBalance(cfg.CreationFee * 100))

	genesis := time.Now().Add(-time.Duration(cfg.GenesisHeight) * cfg.BlockTime)
	heights := chain.NewIntervalSource(genesis, cfg.BlockTime)

	// Audit pipeline: Kafka when brokers are configured, otherwise an
	// in-process worker draining into memory.
	var publisher audit.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := auditkafka.Connect(cfg.Kafka.Brokers, cfg.Kafka.Topic, auditkafka.WithLogger(log))
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kp.Close()
		publisher = kp
		log.Info("audit events published to kafka", "topic", cfg.Kafka.Topic)
	} else {
		inbox := make(chan audit.Event, 256)
		worker := auditworker.NewWorker(auditmemory.NewInMemoryStore(), inbox)
		group.Go(func() error {
			if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		publisher = auditworker.NewChannelPublisher(inbox)
	}

	registry := service.New(registryStore, verifier, transfers, heights,
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
		service.WithAuditPublisher(publisher),
		service.WithCreationFee(cfg.CreationFee),
		service.WithMaxAgreements(cfg.MaxAgreements),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "sponsorreg", "sponsorreg-api")
	registryHandler := handler.New(registry, log, jwttoken.NewJWTServiceAdapter(jwtService))

	health := func(r *http.Request) error {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				return err
			}
		}
		if redisClient != nil {
			return redisClient.Health(r.Context())
		}
		return nil
	}

	router := httptransport.NewRouter(log, metrics.NewHTTP(), health, registryHandler)
	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting sponsorreg", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
