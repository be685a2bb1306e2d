// Package main is the entry point of the mentor ranking service.
//
// The service loads student and mentor profiles from the school's intake
// spreadsheet, scores every mentor against a student, and serves ranked
// match suggestions over a REST API. Profiles are cached in Redis and
// snapshotted to PostgreSQL so ranking keeps working when the spreadsheet
// is unreachable.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sozow-hub/mentor-match/config"
	"github.com/sozow-hub/mentor-match/internal/application/query"
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/external/sheets"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/observability"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/persistence/postgres"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/persistence/redis"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/scheduler"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/scheduler/jobs"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/service"
	httpserver "github.com/sozow-hub/mentor-match/internal/interface/http"
	"github.com/sozow-hub/mentor-match/pkg/circuitbreaker"
	"github.com/sozow-hub/mentor-match/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is a development convenience; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting mentor-match",
		zap.String("env", string(cfg.App.Environment)),
		zap.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Persistence tiers (both optional)
	// ─────────────────────────────────────────────────────────────────────────

	var store service.SnapshotStore
	var pgConn *postgres.Connection
	readiness := make([]httpserver.HealthCheck, 0, 2)

	if cfg.Database.URL != "" {
		pgConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgConn.Close()

		if err := postgres.NewMigrator(pgConn).Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		store = postgres.NewProfileRepo(pgConn)
		readiness = append(readiness, httpserver.HealthCheck{Name: "postgres", Check: pgConn.Ping})
		log.Info("snapshot store enabled")
	} else {
		log.Warn("DATABASE_URL not set, snapshot tier disabled")
	}

	var tableCache service.TableCache
	if !cfg.Redis.Disabled {
		cache, err := redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Close()

		tableCache = redis.NewProfileCache(cache, cfg.Sync.CacheTTL)
		readiness = append(readiness, httpserver.HealthCheck{Name: "redis", Check: cache.Ping})
		log.Info("profile cache enabled", zap.Duration("ttl", cfg.Sync.CacheTTL))
	} else {
		log.Warn("redis disabled, cache tier off")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Spreadsheet client and profile service
	// ─────────────────────────────────────────────────────────────────────────

	sheetsConfig := sheets.DefaultClientConfig(cfg.Sheets.SpreadsheetID, cfg.Sheets.APIKey)
	sheetsConfig.BaseURL = cfg.Sheets.BaseURL
	sheetsConfig.Timeout = cfg.Sheets.RequestTimeout
	sheetsConfig.RequestsPerSecond = cfg.Sheets.RequestsPerSecond
	sheetsConfig.Burst = cfg.Sheets.Burst
	sheetsClient := sheets.NewClient(sheetsConfig, log)
	readiness = append(readiness, httpserver.HealthCheck{Name: "sheets", Check: func(ctx context.Context) error {
		if state := sheetsClient.BreakerState(); state != circuitbreaker.StateClosed {
			return fmt.Errorf("sheets circuit %s", state)
		}
		if !sheetsClient.IsHealthy(ctx) {
			return shared.ErrSheetsUnavailable
		}
		return nil
	}})

	profiles := service.NewProfileService(
		sheetsClient,
		sheets.NewMapper(),
		store,
		tableCache,
		service.SheetRanges{
			Students: cfg.Sheets.StudentRange,
			Mentors:  cfg.Sheets.MentorRange,
			Synonyms: cfg.Sheets.SynonymRange,
		},
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Domain and application layer
	// ─────────────────────────────────────────────────────────────────────────

	policy := buildPolicy(cfg.Matching)
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("scoring policy: %w", err)
	}
	engine := matching.NewEngine(policy, nil)

	students := profiles.Students()
	deps := httpserver.Dependencies{
		RankMentorsHandler:       query.NewRankMentorsHandler(students, profiles.Mentors(), profiles.Synonyms(), engine),
		ListStudentsHandler:      query.NewListStudentsHandler(students),
		GetCandidateSlotsHandler: query.NewGetCandidateSlotsHandler(students),
		Syncer:                   profiles,
		Logger:                   log,
		ReadinessChecks:          readiness,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server and background sync
	// ─────────────────────────────────────────────────────────────────────────

	server := httpserver.NewServer(httpserver.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		IdleTimeout:        cfg.Server.IdleTimeout,
		MaxHeaderBytes:     1 << 20,
		EnableCORS:         cfg.Server.EnableCORS,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		AdminAPIKeyHash:    cfg.Server.AdminAPIKeyHash,
		APIKeyHeader:       cfg.Server.APIKeyHeader,
	}, deps)

	var sched *scheduler.Scheduler
	if cfg.Sync.Enabled {
		sched = scheduler.NewScheduler(log, cfg.App.Location)
		job := jobs.NewSyncProfilesJob(profiles, log, cfg.Sync.JobTimeout)

		var schedule scheduler.Schedule = scheduler.NewIntervalSchedule(cfg.Sync.Interval)
		if cfg.Sync.DailyAt != "" {
			hour, minute, err := cfg.SyncDailyTime()
			if err != nil {
				return err
			}
			schedule = scheduler.NewDailySchedule(hour, minute, cfg.App.Location)
		}
		if err := sched.Register(job, schedule); err != nil {
			return fmt.Errorf("register sync job: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}

		// Warm the tiers at boot; failure is not fatal, the read path can
		// still reach the spreadsheet directly.
		if _, err := profiles.Sync(ctx); err != nil {
			log.Warn("initial profile sync failed", zap.Error(err))
		}
	}

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// Shutdown
	// ─────────────────────────────────────────────────────────────────────────

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Warn("scheduler stop failed", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// buildPolicy overlays configured weights on the default scoring policy.
func buildPolicy(m config.MatchingConfig) matching.ScoringPolicy {
	policy := matching.DefaultScoringPolicy()
	if m.TopN > 0 {
		policy.TopN = m.TopN
	}
	if m.PreferenceMatchBonus > 0 {
		policy.PreferenceMatchBonus = m.PreferenceMatchBonus
	}
	if m.SameGenderBonus > 0 {
		policy.SameGenderBonus = m.SameGenderBonus
	}
	if m.GameLevelWeight > 0 {
		policy.GameLevelWeight = m.GameLevelWeight
	}
	if m.OtherGamePoints > 0 {
		policy.OtherGamePoints = m.OtherGamePoints
	}
	if m.SimilarityWeight > 0 {
		policy.SimilarityWeight = m.SimilarityWeight
	}
	if m.RelationBonus > 0 {
		policy.RelationBonus = m.RelationBonus
	}
	return policy
}
