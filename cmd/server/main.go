// Command server wires the campushire service: stores, services, handlers,
// and the HTTP lifecycle. Business logic lives under internal/.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campushire/internal/challenge/grader"
	challengehandler "campushire/internal/challenge/handler"
	challengemetrics "campushire/internal/challenge/metrics"
	challengeports "campushire/internal/challenge/ports"
	challengeservice "campushire/internal/challenge/service"
	challengestore "campushire/internal/challenge/store/challenge"
	leaderboardstore "campushire/internal/challenge/store/leaderboard"
	submissionstore "campushire/internal/challenge/store/submission"
	httpapi "campushire/internal/http"
	placementhandler "campushire/internal/placement/handler"
	placementmetrics "campushire/internal/placement/metrics"
	placementports "campushire/internal/placement/ports"
	placementservice "campushire/internal/placement/service"
	applicationstore "campushire/internal/placement/store/application"
	candidatestore "campushire/internal/placement/store/candidate"
	rolestore "campushire/internal/placement/store/role"
	"campushire/internal/platform/config"
	"campushire/internal/platform/httpserver"
	"campushire/internal/platform/logger"
	"campushire/internal/platform/postgres"
	platformredis "campushire/internal/platform/redis"
	schedulehandler "campushire/internal/schedule/handler"
	scheduleports "campushire/internal/schedule/ports"
	scheduleservice "campushire/internal/schedule/service"
	interviewstore "campushire/internal/schedule/store/interview"
	scoringhandler "campushire/internal/scoring/handler"
	scoringservice "campushire/internal/scoring/service"
	"campushire/pkg/platform/audit"
	"campushire/pkg/platform/audit/publisher"
	auditkafka "campushire/pkg/platform/audit/store/kafka"
	auditmemory "campushire/pkg/platform/audit/store/memory"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		fatal(log, "invalid configuration", err)
	}

	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		fatal(log, "postgres unavailable", err)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			fatal(log, "schema migration failed", err)
		}
		log.Info("postgres connected")
	}

	rc, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		fatal(log, "redis unavailable", err)
	}
	if rc != nil {
		defer rc.Close()
		log.Info("redis connected")
	}

	var auditStore audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := auditkafka.New(cfg.KafkaBrokers)
		if err != nil {
			fatal(log, "kafka unavailable", err)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit events published to kafka", "topic", auditkafka.DefaultTopic)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditPub := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditPub.Close()

	var (
		candidates   placementports.CandidateStore
		roles        placementports.RoleStore
		applications placementports.ApplicationStore
		interviews   scheduleports.InterviewStore
		challenges   challengeports.ChallengeStore
		submissions  challengeports.SubmissionStore
	)
	if db != nil {
		candidates = candidatestore.NewPostgres(db)
		roles = rolestore.NewPostgres(db)
		applications = applicationstore.NewPostgres(db)
		interviews = interviewstore.NewPostgres(db)
		challenges = challengestore.NewPostgres(db)
		submissions = submissionstore.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		candidates = candidatestore.NewInMemory()
		roles = rolestore.NewInMemory()
		applications = applicationstore.NewInMemory()
		interviews = interviewstore.NewInMemory()
		challenges = challengestore.NewInMemory()
		submissions = submissionstore.NewInMemory()
	}

	var leaderboard challengeports.Leaderboard
	if rc != nil {
		leaderboard = leaderboardstore.NewRedis(rc.Client)
	} else {
		leaderboard = leaderboardstore.NewInMemory()
	}

	placementSvc := placementservice.New(candidates, roles, applications,
		placementservice.WithLogger(log),
		placementservice.WithMetrics(placementmetrics.New()),
		placementservice.WithAuditPublisher(auditPub),
	)

	scheduleSvc := scheduleservice.New(interviews,
		scheduleservice.NewPlacementDeadlineSource(applications, roles),
		challengeservice.NewDeadlineSource(challenges),
		scheduleservice.WithLogger(log),
	)

	runner, err := grader.NewDockerRunner(ctx, cfg.Grader.DockerHost, cfg.Grader.Image, cfg.Grader.MemoryMB)
	if err != nil {
		fatal(log, "docker sandbox unavailable", err)
	}
	defer runner.Close()

	challengeSvc := challengeservice.New(challenges, submissions, leaderboard,
		grader.New(runner, cfg.Grader.CaseTimeout),
		challengeservice.WithLogger(log),
		challengeservice.WithMetrics(challengemetrics.New()),
		challengeservice.WithAuditPublisher(auditPub),
	)

	var generator scoringservice.Generator
	if cfg.Scoring.VertexProject != "" {
		vertex, err := scoringservice.NewVertexGenerator(ctx, cfg.Scoring.VertexProject, cfg.Scoring.VertexLocation)
		if err != nil {
			fatal(log, "vertex ai unavailable", err)
		}
		defer vertex.Close()
		generator = vertex
	} else {
		log.Warn("vertex ai not configured, scoring serves fallback analyses")
	}
	scoringSvc := scoringservice.New(generator, scoringservice.WithLogger(log))

	health := map[string]httpapi.HealthChecker{}
	if db != nil {
		health["postgres"] = func() error { return db.PingContext(context.Background()) }
	}
	if rc != nil {
		health["redis"] = func() error { return rc.Health(context.Background()) }
	}

	router := httpapi.NewRouter(log, cfg.CORSOrigins, health,
		placementhandler.New(placementSvc, candidates, roles, log),
		schedulehandler.New(scheduleSvc, log),
		challengehandler.New(challengeSvc, log),
		scoringhandler.New(scoringSvc, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
