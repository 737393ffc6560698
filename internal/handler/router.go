// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"example.com/saga-coordinator/internal/middleware"
	"example.com/saga-coordinator/pkg/metrics"
)

// ReadinessChecker — функция проверки готовности сервиса.
type ReadinessChecker func(ctx context.Context) error

// Router — конфигурация роутера.
type Router struct {
	engine         *gin.Engine
	accounts       AccountService
	stores         StoreService
	orders         OrderService
	responder      *Responder
	rateLimitMW    *middleware.RateLimitMiddleware
	tracingMW      *middleware.TracingMiddleware
	readinessCheck ReadinessChecker // опциональная проверка готовности
}

// RouterConfig — параметры для создания роутера.
type RouterConfig struct {
	Accounts       AccountService
	Stores         StoreService
	Orders         OrderService
	Responder      *Responder
	RateLimitMW    *middleware.RateLimitMiddleware
	TracingMW      *middleware.TracingMiddleware
	ReadinessCheck ReadinessChecker // опциональная проверка готовности для /readyz
	Debug          bool             // Режим отладки Gin
}

// NewRouter создаёт и настраивает HTTP роутер.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Стандартные middleware Gin
	engine.Use(gin.Recovery())

	// CORS — обработка cross-origin запросов
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Security headers — защита от clickjacking, MIME-sniffing, XSS
	engine.Use(middleware.SecurityHeaders())

	// OpenTelemetry tracing — создаёт spans для Jaeger
	engine.Use(otelgin.Middleware("saga-coordinator"))

	// Prometheus метрики — requests_total, request_duration_seconds
	engine.Use(metrics.GinMetricsMiddleware("saga-coordinator"))

	r := &Router{
		engine:         engine,
		accounts:       cfg.Accounts,
		stores:         cfg.Stores,
		orders:         cfg.Orders,
		responder:      cfg.Responder,
		rateLimitMW:    cfg.RateLimitMW,
		tracingMW:      cfg.TracingMW,
		readinessCheck: cfg.ReadinessCheck,
	}

	r.setupRoutes()
	return r
}

// setupRoutes настраивает маршруты саг.
// Пути исторические, их знают billing и фронты платформы, поэтому
// версионного префикса нет.
func (r *Router) setupRoutes() {
	// Глобальные middleware
	if r.tracingMW != nil {
		r.engine.Use(r.tracingMW.Handle())
	}

	// Health endpoints (без rate limiting)
	r.engine.GET("/health", r.healthCheck)           // legacy, оставлен для совместимости
	r.engine.GET("/healthz", r.livenessCheck)        // k3s liveness probe
	r.engine.GET("/readyz", r.readinessCheckHandler) // k3s readiness probe

	routes := r.engine.Group("")

	// Rate limiting на маршрутах саг (если включен)
	if r.rateLimitMW != nil {
		routes.Use(r.rateLimitMW.Handle())
	}

	// === Саги аккаунтов ===
	accountHandler := NewAccountHandler(r.accounts, r.responder)
	routes.POST("/create_account", accountHandler.CreateAccount)
	routes.POST("/email_verify", accountHandler.EmailVerify)
	routes.POST("/email_verify_apply", accountHandler.EmailVerifyApply)
	routes.POST("/reset_password", accountHandler.ResetPassword)
	routes.POST("/reset_password_apply", accountHandler.ResetPasswordApply)

	// === Сага магазинов ===
	storeHandler := NewStoreHandler(r.stores, r.responder)
	routes.POST("/create_store", storeHandler.CreateStore)

	// === Саги заказов ===
	orderHandler := NewOrderHandler(r.orders, r.responder)
	routes.POST("/create_order", orderHandler.CreateOrder)
	routes.POST("/buy_now", orderHandler.BuyNow)
	routes.POST("/orders/update_state", orderHandler.UpdateStateByBilling)
	routes.POST("/orders/:slug/set_state", orderHandler.SetState)

	// Неизвестный маршрут отвечает в формате ошибок платформы
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Request to non existing endpoint in saga coordinator microservice!",
		})
	})
}

// Engine возвращает Gin engine для запуска сервера.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// healthCheck — проверка работоспособности сервиса (legacy).
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "saga-coordinator",
	})
}

// livenessCheck — liveness probe для Kubernetes.
// Возвращает 200 OK если процесс жив (сервер отвечает = процесс работает).
func (r *Router) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// readinessCheckHandler — readiness probe для Kubernetes.
// Возвращает 200 OK если сервис готов принимать трафик.
func (r *Router) readinessCheckHandler(c *gin.Context) {
	// Если ReadinessChecker не установлен — считаем сервис готовым
	if r.readinessCheck == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	// Проверяем готовность с таймаутом 5 секунд
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := r.readinessCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
