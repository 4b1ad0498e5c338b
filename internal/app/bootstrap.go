package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/printshop_console/config"
	"github.com/Gunvolt24/printshop_console/internal/auth"
	cachemem "github.com/Gunvolt24/printshop_console/internal/cache/memory"
	"github.com/Gunvolt24/printshop_console/internal/kafka"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/Gunvolt24/printshop_console/internal/remote"
	"github.com/Gunvolt24/printshop_console/internal/repo/postgres"
	"github.com/Gunvolt24/printshop_console/internal/state"
	rest "github.com/Gunvolt24/printshop_console/internal/transport/http"
	"github.com/Gunvolt24/printshop_console/internal/usecase"
	"github.com/Gunvolt24/printshop_console/internal/workspace"
	"github.com/Gunvolt24/printshop_console/pkg/logger"
	"github.com/Gunvolt24/printshop_console/pkg/metrics"
	"github.com/Gunvolt24/printshop_console/pkg/telemetry"
	"github.com/Gunvolt24/printshop_console/pkg/validate"
	"github.com/gin-gonic/gin"
)

// Runner — фоновый компонент со своим циклом (публикатор событий).
type Runner interface {
	Run(ctx context.Context) error
	Close() error
}

// App — собранное приложение и его внешние интерфейсы (HTTP, фоновые компоненты).
type App struct {
	Logger          ports.Logger  // логгер
	HTTPServer      *http.Server  // HTTP-сервер
	Runners         []Runner      // фоновые компоненты; могут отсутствовать
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// setupTracing — OTEL при включённой конфигурации; иначе no-op и пустое имя для otelgin.
func setupTracing(ctx context.Context, cfg *config.Tracing, log ports.Logger) (shutdown func(context.Context) error, otelServiceName string) {
	shutdown = func(context.Context) error { return nil }
	if !cfg.Enabled {
		return shutdown, ""
	}
	setup, err := telemetry.SetupTracing(ctx, cfg.ServiceName, cfg.Endpoint, cfg.SampleRatio)
	if err != nil {
		log.Warnf(ctx, "failed to setup tracing: %v", err)
		return shutdown, ""
	}
	log.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
		cfg.ServiceName, cfg.Endpoint, cfg.SampleRatio)
	return setup, cfg.ServiceName
}

func newHTTPServer(cfg *config.HTTP, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// newStateStore — memory (по умолчанию) или redis.
func newStateStore(ctx context.Context, cfg *config.State) (ports.StateStore, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "memory":
		return state.NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		rdb, err := state.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return state.NewRedisStore(rdb, cfg.TTL), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
}

// Bootstrap — собирает консоль и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Удалённое хранилище.
	client := remote.NewHTTPClient(cfg.Remote.Timeout)
	orderStore, err := remote.NewOrderClient(client, cfg.Remote.BaseURL, cfg.Remote.OrdersResource)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}
	credStore, err := remote.NewCredentialClient(client, cfg.Remote.BaseURL, cfg.Remote.LoginResource)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Состояние сессий.
	stateStore, closeState, err := newStateStore(ctx, &cfg.State)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	shutdownTrace, otelServiceName := setupTracing(ctx, &cfg.Tracing, logg)

	// Сборка зависимостей доменного слоя.
	orders := cachemem.NewOrderCollection(orderStore)
	coordinator := usecase.NewMutationCoordinator(orderStore, orders, logg, validate.NewOrderValidator())
	spaces := workspace.NewManager(orders, coordinator, logg)
	coordinator.Subscribe(spaces)

	// Прогрев кэша; недоступное хранилище не мешает старту.
	if err := orders.Refresh(ctx); err != nil {
		logg.Warnf(ctx, "warm-up refresh failed: %v", err)
	}

	// Публикация событий инвалидации.
	var runners []Runner
	if cfg.Events.Enabled {
		publisher := kafka.NewPublisher(&kafka.PublisherConfig{
			Brokers:      cfg.Events.Brokers,
			Topic:        cfg.Events.Topic,
			BufferSize:   cfg.Events.BufferSize,
			WriteTimeout: cfg.Events.WriteTimeout,
			RetryInitial: cfg.Events.RetryInitial,
			RetryMax:     cfg.Events.RetryMax,
			MaxAttempts:  cfg.Events.MaxAttempts,
		}, logg)
		coordinator.Subscribe(publisher)
		runners = append(runners, publisher)
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Роутер и HTTP-сервер.
	handler := rest.NewConsoleHandler(
		auth.NewAuthenticator(credStore, logg), spaces, orders, coordinator, stateStore, logg, cfg.HTTP.HandlerTimeout,
	)
	router := rest.NewConsoleRouter(handler, cfg.HTTP.StaticDir, otelServiceName)

	app := &App{
		Logger:          logg,
		HTTPServer:      newHTTPServer(&cfg.HTTP, cfg.HTTP.Addr, router),
		Runners:         runners,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		for _, r := range runners {
			if err := r.Close(); err != nil {
				logg.Warnf(ctx, "runner close error: %v", err)
			}
		}
		if err := closeState(); err != nil {
			logg.Warnf(ctx, "state store close error: %v", err)
		}
		closeLogger()
	}

	return app, cleanup, nil
}

// BootstrapStore — эталонное хранилище: Postgres, миграции, REST-коллекции servicios и login.
func BootstrapStore(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	metrics.MustRegister()

	// Схема до пула: пустая база получает таблицы и начального администратора.
	if err := postgres.Migrate(ctx, cfg.Store.DSN, cfg.Store.MigrationsDir); err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, cfg.Store.DSN, cfg.Store.MaxConns)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	shutdownTrace, otelServiceName := setupTracing(ctx, &cfg.Tracing, logg)
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	handler := rest.NewStoreHandler(
		postgres.NewOrderRepository(pool), postgres.NewCredentialRepository(pool), logg, cfg.HTTP.HandlerTimeout,
	)
	router := rest.NewStoreRouter(handler, otelServiceName)

	app := &App{
		Logger:          logg,
		HTTPServer:      newHTTPServer(&cfg.HTTP, cfg.Store.Addr, router),
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		pool.Close()
		closeLogger()
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и фоновые компоненты; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, len(a.Runners)+1)

	// Фоновые компоненты живут, пока жив runCtx.
	runCtx, cancelRunners := context.WithCancel(ctx)
	defer cancelRunners()

	for _, r := range a.Runners {
		go func(r Runner) {
			if err := r.Run(runCtx); err != nil {
				errCh <- err
			}
		}(r)
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка фоновых компонентов.
	cancelRunners()
	for _, r := range a.Runners {
		if err := r.Close(); err != nil {
			a.Logger.Warnf(ctx, "runner close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
