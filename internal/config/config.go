// Package config содержит конфигурацию координатора саг.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config содержит полную конфигурацию координатора саг.
type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Downstream   DownstreamConfig
	Notification NotificationConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	CrashReport  CrashReportConfig
	Jaeger       JaegerConfig
	Metrics      MetricsConfig
}

// AppConfig — общие настройки приложения.
type AppConfig struct {
	Name      string `env:"APP_NAME" envDefault:"saga-coordinator"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// HTTPConfig — настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"HTTP_PORT" envDefault:"8000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Addr возвращает адрес HTTP сервера.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DownstreamConfig — базовые URL микросервисов платформы.
// Сага обращается к каждому из них по чистому HTTP.
type DownstreamConfig struct {
	UsersURL         string `env:"USERS_URL" envDefault:"http://users:8000"`
	StoresURL        string `env:"STORES_URL" envDefault:"http://stores:8000"`
	OrdersURL        string `env:"ORDERS_URL" envDefault:"http://orders:8000"`
	BillingURL       string `env:"BILLING_URL" envDefault:"http://billing:8000"`
	DeliveryURL      string `env:"DELIVERY_URL" envDefault:"http://delivery:8000"`
	WarehousesURL    string `env:"WAREHOUSES_URL" envDefault:"http://warehouses:8000"`
	NotificationsURL string `env:"NOTIFICATIONS_URL" envDefault:"http://notifications:8000"`

	// Timeout ограничивает один HTTP вызов к downstream сервису.
	Timeout time.Duration `env:"DOWNSTREAM_TIMEOUT" envDefault:"30s"`

	// MaxIdleConns задаёт размер пула keep-alive соединений на хост.
	MaxIdleConns int `env:"DOWNSTREAM_MAX_IDLE_CONNS" envDefault:"10"`

	// Retries — число повторов транспортных ошибок на один вызов.
	Retries int `env:"DOWNSTREAM_RETRIES" envDefault:"3"`
}

// NotificationConfig — параметры писем, отправляемых через notifications.
// ClusterURL подставляется в ссылки подтверждения почты и сброса пароля.
type NotificationConfig struct {
	ClusterURL        string `env:"CLUSTER_URL" envDefault:"https://nightly.stq.cloud"`
	VerifyEmailPath   string `env:"VERIFY_EMAIL_PATH" envDefault:"verify_email"`
	ResetPasswordPath string `env:"RESET_PASSWORD_PATH" envDefault:"reset_password"`
}

// VerifyEmailURL возвращает базовую ссылку подтверждения почты.
func (c NotificationConfig) VerifyEmailURL() string {
	return c.ClusterURL + "/" + c.VerifyEmailPath
}

// ResetPasswordURL возвращает базовую ссылку сброса пароля.
func (c NotificationConfig) ResetPasswordURL() string {
	return c.ClusterURL + "/" + c.ResetPasswordPath
}

// RedisConfig — настройки подключения к Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Addr возвращает адрес Redis сервера.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig — настройки ограничения запросов.
// По умолчанию выключено: координатор стоит за gateway, который уже
// ограничивает внешний трафик.
type RateLimitConfig struct {
	Enabled       bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RequestsLimit int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"` // Количество запросов
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`    // Временное окно
}

// CrashReportConfig — публикация отчётов о внутренних ошибках в Kafka.
type CrashReportConfig struct {
	Enabled bool     `env:"CRASH_REPORT_ENABLED" envDefault:"false"`
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Topic   string   `env:"CRASH_REPORT_TOPIC" envDefault:"saga.crash-reports"`
}

// JaegerConfig — настройки трассировки Jaeger.
type JaegerConfig struct {
	Enabled  bool   `env:"JAEGER_ENABLED" envDefault:"true"`
	Host     string `env:"JAEGER_HOST" envDefault:"localhost"`
	OTLPPort int    `env:"JAEGER_OTLP_PORT" envDefault:"4317"`
}

// OTLPEndpoint возвращает OTLP gRPC endpoint для Jaeger.
func (c JaegerConfig) OTLPEndpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.OTLPPort)
}

// MetricsConfig — настройки Prometheus метрик.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"` // Включить metrics endpoint
	Port    int  `env:"METRICS_PORT" envDefault:"9090"`    // Порт для /metrics
}

// Addr возвращает адрес для Metrics HTTP сервера.
func (c MetricsConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файл не найден)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}

	return cfg, nil
}

// IsDevelopment возвращает true в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
