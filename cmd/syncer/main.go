// Package main is a one-shot profile sync tool. It pulls the three profile
// tables from the intake spreadsheet and writes them through the snapshot
// store and cache, then exits. Useful for cron-driven deployments and for
// seeding a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sozow-hub/mentor-match/config"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/external/sheets"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/persistence/postgres"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/persistence/redis"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/service"
	"github.com/sozow-hub/mentor-match/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "overall sync timeout")
	flag.Parse()

	if err := run(*timeout); err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		os.Exit(1)
	}
}

func run(timeout time.Duration) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var store service.SnapshotStore
	if cfg.Database.URL != "" {
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()

		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store = postgres.NewProfileRepo(conn)
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
			log.Warn("redis unavailable, syncing snapshot only", zap.Error(err))
		} else {
			defer cache.Close()
			tableCache = redis.NewProfileCache(cache, cfg.Sync.CacheTTL)
		}
	}

	sheetsConfig := sheets.DefaultClientConfig(cfg.Sheets.SpreadsheetID, cfg.Sheets.APIKey)
	sheetsConfig.BaseURL = cfg.Sheets.BaseURL
	sheetsConfig.Timeout = cfg.Sheets.RequestTimeout
	sheetsConfig.RequestsPerSecond = cfg.Sheets.RequestsPerSecond
	sheetsConfig.Burst = cfg.Sheets.Burst

	profiles := service.NewProfileService(
		sheets.NewClient(sheetsConfig, log),
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

	report, err := profiles.Sync(ctx)
	if err != nil {
		return err
	}

	log.Info("sync complete",
		zap.String("run_id", report.RunID),
		zap.Int("students", report.Students),
		zap.Int("mentors", report.Mentors),
		zap.Int("synonyms", report.Synonyms),
		zap.Duration("duration", report.Duration),
	)
	return nil
}
