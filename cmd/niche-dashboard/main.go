package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Domain
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"

	// Application wiring
	"github.com/paradoxie/niche-dashboard/internal/bootstrap"
	"github.com/paradoxie/niche-dashboard/internal/healthsweep"

	// Infrastructure
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/github"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/i18n"
	wsInfra "github.com/paradoxie/niche-dashboard/internal/infrastructure/notification/websocket"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/observability/metrics"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/scheduler"

	// Interfaces
	httpInterface "github.com/paradoxie/niche-dashboard/internal/interfaces/http"
	"github.com/paradoxie/niche-dashboard/internal/interfaces/http/handler"

	// Shared
	"github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// jobTimeout ограничивает один запуск фоновой задачи
const jobTimeout = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "niche-dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Инициализируем logger
	log := logger.NewWithOptions(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.Info("Starting Niche Dashboard", "port", cfg.Server.Port, "db_driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Подключаем хранилище и необязательные адаптеры (Redis, NATS, S3, CloudWatch)
	infra, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := infra.Close(closeCtx); err != nil {
			log.Error("Failed to close infrastructure", err)
		}
	}()

	// 4. Dependency Injection - Infrastructure Layer
	catalog, err := i18n.Load(cfg.Locale.Default)
	if err != nil {
		return fmt.Errorf("failed to load locale catalog: %w", err)
	}
	promMetrics := metrics.NewDefault()
	hub := wsInfra.NewHub(log)
	githubClient := github.NewClient(ctx, cfg.GitHub)
	if cfg.GitHub.Token == "" {
		log.Warn("GITHUB_TOKEN is not set, GitHub sync uses the anonymous rate limit")
	}

	// 5. Dependency Injection - Application Layer (Use Cases)
	clock := service.SystemClock{Location: cfg.Locale.Location}
	ucs := bootstrap.NewUseCases(cfg, infra, githubClient, catalog, clock, bootstrap.Observers{
		Jobs:     promMetrics,
		Gauge:    promMetrics,
		Notifier: hub,
	}, log)

	// 6. Dependency Injection - Interfaces Layer (HTTP Handlers)
	authConfig := httpInterface.AuthConfig(cfg.Security, promMetrics)
	dashboardHandler, err := handler.NewDashboardHandler(httpInterface.StaticFS(), log)
	if err != nil {
		return fmt.Errorf("failed to load dashboard page: %w", err)
	}

	pingers := make(map[string]handler.Pinger, len(infra.Pingers))
	for name, p := range infra.Pingers {
		pingers[name] = p
	}

	router := httpInterface.NewRouter(httpInterface.Handlers{
		Dashboard:   dashboardHandler,
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log),
		Auth:        handler.NewAuthAPIHandler(authConfig, log),
		System:      handler.NewSystemHandler(pingers),
		Projects:    handler.NewProjectAPIHandler(ucs.ListProjects, ucs.ManageProjects, log),
		Backlinks:   handler.NewRecordAPIHandler(ucs.Backlinks, func() *entity.Backlink { return &entity.Backlink{} }, handler.BacklinkFilter, log),
		Resources:   handler.NewRecordAPIHandler(ucs.Resources, func() *entity.Resource { return &entity.Resource{} }, nil, log),
		Expenses:    handler.NewRecordAPIHandler(ucs.Expenses, func() *entity.Expense { return &entity.Expense{} }, handler.ExpenseFilter, log),
		Tools:       handler.NewRecordAPIHandler(ucs.Tools, func() *entity.Tool { return &entity.Tool{} }, nil, log),
		Presets:     handler.NewPresetAPIHandler(ucs.Presets, log),
		Analytics:   handler.NewAnalyticsAPIHandler(ucs.Analytics, log),
		Data:        handler.NewDataAPIHandler(ucs.Export, ucs.Import, cfg.Server.MaxImportBytes, log),
		Github:      handler.NewGithubAPIHandler(ucs.SyncGithub, log),
		HealthSweep: healthsweep.NewHandler(ucs.HealthSweep),
	}, promMetrics, catalog, cfg.Security, log)

	// 7. Запускаем фоновые процессы
	go hub.Run(ctx)

	jobs := scheduler.New(cfg.Locale.Location, jobTimeout, log)
	if err := jobs.Add("github_sync", cfg.GitHub.SyncCron, func(ctx context.Context) error {
		_, err := ucs.SyncGithub.Execute(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := jobs.Add(healthsweep.JobName, cfg.HealthSweep.Cron, ucs.HealthSweep.Run); err != nil {
		return err
	}
	jobs.Start()

	// первый проход сразу, чтобы у websocket клиентов был снимок
	go func() {
		if _, err := ucs.HealthSweep.RunOnce(ctx); err != nil {
			log.Warn("Initial health sweep failed", "error", err)
		}
	}()

	// 8. Настраиваем HTTP сервер
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 9. Ожидаем сигнал для graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		log.Error("HTTP server failed", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler did not stop in time", "error", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
