// Command server runs the progression and scoring engine: assessment
// scoring, the Gleam ledger, referrals, and the leaderboard behind one
// HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	accounthandler "ascent/internal/account/handler"
	accountservice "ascent/internal/account/service"
	catalogstore "ascent/internal/catalog/store"
	apphttp "ascent/internal/http"
	lbhandler "ascent/internal/leaderboard/handler"
	"ascent/internal/leaderboard/refresher"
	lbservice "ascent/internal/leaderboard/service"
	lbmem "ascent/internal/leaderboard/store/memory"
	lbredis "ascent/internal/leaderboard/store/redis"
	ledgerhandler "ascent/internal/ledger/handler"
	ledgerports "ascent/internal/ledger/ports"
	ledgerservice "ascent/internal/ledger/service"
	ledgermem "ascent/internal/ledger/store/memory"
	ledgerpg "ascent/internal/ledger/store/postgres"
	"ascent/internal/platform/config"
	"ascent/internal/platform/httpserver"
	"ascent/internal/platform/logger"
	"ascent/internal/platform/metrics"
	"ascent/internal/platform/middleware"
	"ascent/internal/platform/postgres"
	platformredis "ascent/internal/platform/redis"
	profilehandler "ascent/internal/profile/handler"
	profileports "ascent/internal/profile/ports"
	profilemem "ascent/internal/profile/store/memory"
	profilepg "ascent/internal/profile/store/postgres"
	referralhandler "ascent/internal/referral/handler"
	referralports "ascent/internal/referral/ports"
	referralservice "ascent/internal/referral/service"
	refmem "ascent/internal/referral/store/memory"
	refpg "ascent/internal/referral/store/postgres"
	scoringhandler "ascent/internal/scoring/handler"
	scoringports "ascent/internal/scoring/ports"
	scoringservice "ascent/internal/scoring/service"
	scoringmem "ascent/internal/scoring/store/memory"
	scoringpg "ascent/internal/scoring/store/postgres"
	"ascent/pkg/platform/audit"
	"ascent/pkg/platform/audit/publisher"
	auditmem "ascent/pkg/platform/audit/store/memory"
	auditworker "ascent/pkg/platform/audit/worker"
	"ascent/pkg/platform/tx"
)

const auditInboxSize = 1024

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Stores: PostgreSQL when configured, in-memory for development.
	var (
		db           *sql.DB
		ledgerStore  ledgerports.Store
		resultStore  scoringports.ResultStore
		grantStore   referralports.Store
		profileStore profileports.Store
		txRunner     referralports.TxRunner
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		ledgerStore = ledgerpg.New(db)
		resultStore = scoringpg.New(db)
		grantStore = refpg.New(db)
		profileStore = profilepg.New(db)
		txRunner = tx.NewRunner(db)
		log.Info("using postgres stores")
	} else {
		ledgerStore = ledgermem.New()
		resultStore = scoringmem.New()
		grantStore = refmem.New()
		profileStore = profilemem.New()
		txRunner = refmem.PassthroughTx{}
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Leaderboard snapshots: Redis when configured, so every instance
	// serves the same board.
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	var snapshotStore lbservice.SnapshotStore
	if redisClient != nil {
		defer redisClient.Close()
		snapshotStore = lbredis.New(redisClient.Client)
		log.Info("using redis snapshot store")
	} else {
		snapshotStore = lbmem.New()
	}

	// Audit pipeline: services emit into a bounded inbox; the worker
	// drains it to Kafka when brokers are configured, otherwise to the
	// in-process store.
	inbox := make(chan audit.Event, auditInboxSize)
	auditPublisher := auditworker.NewChannelPublisher(inbox)
	var auditSink audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := publisher.NewKafka(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafka.Close()
		auditSink = kafka
		log.Info("audit events flowing to kafka", "topic", cfg.AuditTopic)
	} else {
		auditSink = auditmem.New()
		log.Warn("KAFKA_BROKERS not set, audit events stay in memory")
	}

	// Services.
	catalog := catalogstore.NewSeeded()

	ledgerSvc, err := ledgerservice.New(ledgerStore,
		ledgerservice.WithLogger(log),
		ledgerservice.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return err
	}
	scoringSvc, err := scoringservice.New(catalog, ledgerSvc, resultStore,
		scoringservice.WithLogger(log),
		scoringservice.WithAuditPublisher(auditPublisher),
		scoringservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	referralSvc, err := referralservice.New(grantStore, ledgerSvc, txRunner,
		referralservice.WithLogger(log),
		referralservice.WithAuditPublisher(auditPublisher),
		referralservice.WithMetrics(m),
		referralservice.WithBaseGleams(cfg.ReferralBaseGleams),
	)
	if err != nil {
		return err
	}
	boardSvc, err := lbservice.New(ledgerStore, profileStore, snapshotStore,
		lbservice.WithLogger(log),
		lbservice.WithAuditPublisher(auditPublisher),
		lbservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	accountSvc, err := accountservice.New(ledgerSvc, referralSvc, profileStore,
		accountservice.WithLogger(log),
	)
	if err != nil {
		return err
	}

	// HTTP surface.
	healthChecks := map[string]apphttp.HealthChecker{}
	if db != nil {
		healthChecks["postgres"] = dbHealth{db: db}
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient
	}
	router := apphttp.New(apphttp.Config{
		Logger:       log,
		Metrics:      m,
		JWTValidator: middleware.NewHS256Validator(cfg.JWTSigningKey),
		Handlers: []apphttp.Registrar{
			scoringhandler.New(scoringSvc, log),
			ledgerhandler.New(ledgerSvc, profileStore, log),
			profilehandler.New(profileStore, log),
			referralhandler.New(referralSvc, log),
			lbhandler.New(boardSvc, log),
			accounthandler.New(accountSvc, log),
		},
		HealthChecks: healthChecks,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		worker := auditworker.New(auditSink, inbox, log)
		err := worker.Run(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := refresher.New(boardSvc, cfg.SnapshotRefreshInterval, log).Run(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
