// Package main — точка входа координатора саг.
// Координатор собирает распределённые транзакции платформы: создание
// аккаунта, магазина и заказа в семи микросервисах, с компенсацией
// уже выполненных шагов при ошибке.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"example.com/saga-coordinator/internal/client"
	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/handler"
	"example.com/saga-coordinator/internal/middleware"
	"example.com/saga-coordinator/internal/report"
	"example.com/saga-coordinator/internal/saga"
	"example.com/saga-coordinator/pkg/db"
	"example.com/saga-coordinator/pkg/healthcheck"
	"example.com/saga-coordinator/pkg/kafka"
	"example.com/saga-coordinator/pkg/logger"
	"example.com/saga-coordinator/pkg/metrics"
	"example.com/saga-coordinator/pkg/tracing"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Ошибка загрузки конфигурации")
	}

	// Инициализируем логгер
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Pretty: cfg.App.LogPretty,
	})

	logger.Info().
		Str("service", cfg.App.Name).
		Str("env", cfg.App.Env).
		Msg("Запуск координатора саг")

	// === Observability: Tracing ===

	// Инициализируем distributed tracing (Jaeger)
	shutdownTracing, err := tracing.InitTracer(tracing.Config{
		ServiceName:    "saga-coordinator",
		JaegerEndpoint: cfg.Jaeger.OTLPEndpoint(),
		Enabled:        cfg.Jaeger.Enabled,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Не удалось инициализировать tracing")
	}

	// === Инициализация зависимостей ===

	// Redis нужен только rate limiter, без него координатор работает
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient, err = db.ConnectRedis(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Не удалось подключиться к Redis")
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("Ошибка закрытия Redis")
			}
		}()
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("Подключено к Redis")
	}

	// Kafka продюсер для crash report (опционален)
	var producer *kafka.Producer
	if cfg.CrashReport.Enabled {
		producer, err = kafka.NewProducer(kafka.Config{Brokers: cfg.CrashReport.Brokers})
		if err != nil {
			logger.Fatal().Err(err).Msg("Не удалось создать Kafka продюсер")
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error().Err(err).Msg("Ошибка закрытия Kafka продюсера")
			}
		}()
		logger.Info().
			Strs("brokers", cfg.CrashReport.Brokers).
			Str("topic", cfg.CrashReport.Topic).
			Msg("Публикация crash report включена")
	}

	// HTTP клиенты семи downstream сервисов поверх общего пула
	core := client.NewCore(cfg.Downstream)
	factory := client.NewFactory(core, cfg.Downstream)

	// Саги
	accounts := saga.NewAccountSaga(factory, cfg.Notification)
	stores := saga.NewStoreSaga(factory)
	orders := saga.NewOrderSaga(factory, cfg.Notification)

	// Crash sink: ответы 500 уходят в лог и, если включено, в Kafka
	sink := report.NewSink(producer, cfg.CrashReport, cfg.App.Name)
	responder := handler.NewResponder(sink)

	// === Инициализация middleware ===

	// Tracing middleware (Correlation ID, Trace ID)
	tracingMW := middleware.NewTracingMiddleware()

	// Rate limiting middleware
	var rateLimitMW *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		rateLimitMW = middleware.NewRateLimitMiddleware(middleware.RateLimitConfig{
			Redis:  redisClient,
			Limit:  cfg.RateLimit.RequestsLimit,
			Window: cfg.RateLimit.Window,
		})
		logger.Info().
			Int("limit", cfg.RateLimit.RequestsLimit).
			Dur("window", cfg.RateLimit.Window).
			Msg("Rate limiting включён")
	}

	// Готовность: когда Redis в строю, он единственная обязательная
	// зависимость координатора, downstream сервисы проверяют себя сами
	var readinessCheck handler.ReadinessChecker
	if redisClient != nil {
		rdb := redisClient
		readinessCheck = func(ctx context.Context) error {
			return healthcheck.CheckRedis(ctx, rdb)
		}
	}

	// Metrics server поднимаем после зависимостей: его /readyz
	// использует ту же проверку готовности, что и основной роутер
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		var opts []metrics.Option
		if readinessCheck != nil {
			opts = append(opts, metrics.WithReadinessCheck(metrics.ReadinessChecker(readinessCheck)))
		}
		metricsServer = metrics.NewServer(cfg.Metrics.Addr(), "saga-coordinator", opts...)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error().Err(err).Msg("Ошибка Metrics Server")
			}
		}()
	}

	// === Настройка роутера ===

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:       accounts,
		Stores:         stores,
		Orders:         orders,
		Responder:      responder,
		RateLimitMW:    rateLimitMW,
		TracingMW:      tracingMW,
		ReadinessCheck: readinessCheck,
		Debug:          cfg.IsDevelopment(),
	})

	// === HTTP сервер ===

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info().
			Str("addr", cfg.HTTP.Addr()).
			Msg("HTTP сервер запущен")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Ошибка HTTP сервера")
		}
	}()

	// === Graceful Shutdown ===

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Получен сигнал завершения, останавливаем сервер...")

	// Даём 30 секунд на завершение текущих саг
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Ошибка при остановке сервера")
	}

	// Останавливаем Metrics Server (если был запущен)
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Ошибка остановки Metrics Server")
		}
	}

	// Останавливаем Tracing
	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			logger.Error().Err(err).Msg("Ошибка остановки Tracing")
		}
	}

	logger.Info().Msg("Координатор саг остановлен")
}
