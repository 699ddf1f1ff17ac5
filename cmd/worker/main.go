// Package main - точка входа для фоновых процессов (Worker) ThriveRemote Hub.
//
// Worker отвечает за периодические задачи:
// - Обновление кеша релокационных вакансий (Relocate Me)
// - Удаление давно завершённых сессий из хранилища
//
// Worker не обслуживает HTTP трафик; он делит с API сервером базу
// данных и Redis, но запускается отдельным процессом.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	// Infrastructure layer
	relocateapi "github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/external/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/postgres"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/redis"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/scheduler"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/scheduler/jobs"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/service"

	// Packages
	"github.com/Darkprophet2323/thriveremote-hub/config"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting ThriveRemote Hub Worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	appLog := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler is disabled, nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// Проверяем соединение
	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ (Worker также должен иметь актуальную схему)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, refresh job disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ SCHEDULER И JOBS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")

	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	schedConfig.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedConfig)

	// Удаление давно завершённых сессий (по cron-расписанию, раз в сутки)
	pruneCron, err := scheduler.ParseCronExpression(cfg.Scheduler.SessionPruneCron)
	if err != nil {
		return fmt.Errorf("invalid SCHEDULER_SESSION_PRUNE_CRON: %w", err)
	}

	sessionStore := postgres.NewSessionStore(dbConn)
	pruneJob := jobs.NewPruneSessionsJob(sessionStore, jobs.PruneSessionsConfig{
		Retention: cfg.Scheduler.SessionRetention,
		Timeout:   cfg.Scheduler.JobTimeout,
	}, log)
	if err := sched.Register(pruneJob, pruneCron); err != nil {
		return fmt.Errorf("failed to register prune job: %w", err)
	}

	// Обновление кеша Relocate Me. Без Redis кешировать некуда,
	// поэтому job регистрируется только при живом подключении.
	if redisCache != nil {
		relocConfig := relocateapi.DefaultClientConfig(cfg.Relocate.BaseURL)
		relocConfig.Username = cfg.Relocate.Username
		relocConfig.Password = cfg.Relocate.Password
		relocConfig.Timeout = cfg.Relocate.RequestTimeout
		relocConfig.Logger = appLog
		relocClient := relocateapi.NewClient(relocConfig)

		relocService := service.NewRelocateService(relocClient, redis.NewRelocateCache(redisCache), appLog)

		refreshJob := jobs.NewRefreshRelocateJob(relocService, jobs.RefreshRelocateConfig{
			Timeout: cfg.Scheduler.JobTimeout,
		}, log)
		if err := sched.Register(refreshJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RelocateRefreshInterval)); err != nil {
			return fmt.Errorf("failed to register refresh job: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ЗАПУСК SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Info("ThriveRemote Hub Worker is running",
		"relocate_refresh_interval", cfg.Scheduler.RelocateRefreshInterval.String(),
		"session_prune_cron", cfg.Scheduler.SessionPruneCron,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	// Начинаем graceful shutdown
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
		log.Warn("shutdown completed with errors")
		return nil
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
