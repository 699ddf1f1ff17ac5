// Package main - точка входа для API сервера ThriveRemote Hub.
//
// ThriveRemote Hub - дашборд продуктивности для удалённой работы:
// задачи, поиск вакансий, накопления и геймификация (очки, серии,
// достижения) в одном месте.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Sagas)
// - Infrastructure: реализация репозиториев, внешние API
// - Interface: HTTP REST endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// Application layer
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/command"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/eventhandler"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/query"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"

	// Domain layer
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"

	// Infrastructure layer
	relocateapi "github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/external/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/messaging"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/memory"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/postgres"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/persistence/redis"
	"github.com/Darkprophet2323/thriveremote-hub/internal/infrastructure/service"

	// Interface layer
	httpserver "github.com/Darkprophet2323/thriveremote-hub/internal/interface/http"
	"github.com/Darkprophet2323/thriveremote-hub/internal/interface/http/handlers"

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
	log.Info("starting ThriveRemote Hub API",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// Внутренний структурированный логгер для сервисного слоя
	appLog := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

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
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var userCache user.Cache
	var notifFeed notification.Feed
	var relocCache relocate.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			userCache = redis.NewUserCache(redisCache)
			notifFeed = redis.NewNotificationFeed(redisCache)
			relocCache = redis.NewRelocateCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	userRepo := postgres.NewUserRepository(dbConn)
	sessionStore := postgres.NewSessionStore(dbConn)
	ledger := postgres.NewProgressionRepository(dbConn)
	achievementRepo := postgres.NewAchievementRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBusConfig.AsyncMode = true
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing external clients...")

	// Relocate Me API Client
	relocConfig := relocateapi.DefaultClientConfig(cfg.Relocate.BaseURL)
	relocConfig.Username = cfg.Relocate.Username
	relocConfig.Password = cfg.Relocate.Password
	relocConfig.Timeout = cfg.Relocate.RequestTimeout
	relocConfig.Logger = appLog
	relocClient := relocateapi.NewClient(relocConfig)

	relocService := service.NewRelocateService(relocClient, relocCache, appLog)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ И SAGA
	// ─────────────────────────────────────────────────────────────────────────
	sessions := service.NewSessionManager(sessionStore, memory.NewSessionCache(), appLog)

	hasher := credential.NewHasher()

	achievementFlow := saga.NewAchievementFlowSaga(
		achievementRepo,
		ledger,
		eventBus,
		saga.DefaultAchievementFlowConfig(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	progressionDeps := command.ProgressionDeps{
		UserRepo:        userRepo,
		Ledger:          ledger,
		AchievementFlow: achievementFlow,
		EventPublisher:  eventBus,
	}

	registerCmd := command.NewRegisterUserHandler(userRepo, achievementRepo, hasher, sessions, eventBus)
	authenticateCmd := command.NewAuthenticateHandler(userRepo, hasher, sessions, eventBus)
	endSessionCmd := command.NewEndSessionHandler(sessions, eventBus)
	provisionGuestCmd := command.NewProvisionGuestHandler(userRepo, achievementRepo)
	recordActivityCmd := command.NewRecordActivityHandler(progressionDeps)
	trackTaskCmd := command.NewTrackTaskHandler(progressionDeps)
	submitApplicationCmd := command.NewSubmitApplicationHandler(progressionDeps)
	refreshJobsCmd := command.NewRefreshJobsHandler(progressionDeps)
	updateSavingsCmd := command.NewUpdateSavingsHandler(progressionDeps)
	recordTerminalCmd := command.NewRecordTerminalHandler(progressionDeps)
	recordEasterEggCmd := command.NewRecordEasterEggHandler(progressionDeps)
	recordPongScoreCmd := command.NewRecordPongScoreHandler(progressionDeps)
	viewRelocationCmd := command.NewViewRelocationHandler(progressionDeps, relocService)

	profileQuery := query.NewGetUserProfileHandler(userRepo, userCache)
	dashboardQuery := query.NewGetDashboardStatsHandler(userRepo, ledger, achievementRepo)
	achievementsQuery := query.NewGetAchievementsHandler(achievementRepo)
	historyQuery := query.NewGetLedgerHistoryHandler(ledger)
	notificationsQuery := query.NewGetNotificationsHandler(notifFeed)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	dispatcher := messaging.NewDispatcherBuilder(eventBus).
		WithLogger(log).
		WithDeadLetterQueue(100).
		Build()

	unlockHandler := eventhandler.NewOnAchievementUnlockedHandler(userCache, notifFeed, log)
	pointsHandler := eventhandler.NewOnPointsAwardedHandler(userCache, notifFeed, log)
	streakHandler := eventhandler.NewOnStreakUpdatedHandler(userCache, notifFeed, log)

	registrations := []struct {
		eventType shared.EventType
		name      string
		handler   shared.EventHandler
	}{
		{shared.EventAchievementUnlocked, "achievement_unlocked", unlockHandler.Handle},
		{shared.EventPointsAwarded, "points_awarded", pointsHandler.Handle},
		{shared.EventStreakUpdated, "streak_updated", streakHandler.Handle},
		{shared.EventStreakBroken, "streak_broken", streakHandler.Handle},
	}
	for _, reg := range registrations {
		if err := dispatcher.Register(reg.eventType, reg.name, reg.handler); err != nil {
			return fmt.Errorf("failed to register event handler %s: %w", reg.name, err)
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		log.Info("stopping dispatcher...")
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}
	healthChecker.AddCheck("relocate", handlers.NewExternalAPICheck("relocate provider", relocClient))

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.EnableCORS = cfg.Server.EnableCORS
	httpConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	httpConfig.MaxBodyBytes = cfg.Server.MaxBodyBytes
	httpConfig.HandlerTimeout = cfg.Server.HandlerTimeout

	httpDeps := httpserver.Dependencies{
		RegisterUserHandler:      registerCmd,
		AuthenticateHandler:      authenticateCmd,
		EndSessionHandler:        endSessionCmd,
		RecordActivityHandler:    recordActivityCmd,
		TrackTaskHandler:         trackTaskCmd,
		SubmitApplicationHandler: submitApplicationCmd,
		RefreshJobsHandler:       refreshJobsCmd,
		UpdateSavingsHandler:     updateSavingsCmd,
		RecordTerminalHandler:    recordTerminalCmd,
		RecordEasterEggHandler:   recordEasterEggCmd,
		RecordPongScoreHandler:   recordPongScoreCmd,
		ViewRelocationHandler:    viewRelocationCmd,
		ProvisionGuestHandler:    provisionGuestCmd,
		GetUserProfileHandler:    profileQuery,
		GetDashboardStatsHandler: dashboardQuery,
		GetAchievementsHandler:   achievementsQuery,
		GetLedgerHistoryHandler:  historyQuery,
		GetNotificationsHandler:  notificationsQuery,
		Sessions:                 sessions,
		Logger:                   appLog,
		HealthChecker:            healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 13. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting services...")

	// Канал для ошибок
	errCh := make(chan error, 1)

	// Запускаем HTTP сервер
	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 14. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("ThriveRemote Hub API is running",
		"http_address", httpServer.Address(),
	)

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	// Начинаем graceful shutdown
	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	// Останавливаем HTTP сервер (перестаём принимать новые запросы)
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		log.Warn("shutdown completed with errors")
		return nil
	}

	// Dispatcher, event bus и база данных закроются через defer

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
