// Package client содержит HTTP клиенты микросервисов платформы.
//
// Все сервисы платформы разговаривают одним диалектом: JSON тела,
// числовой принципал в Authorization, конверт ошибки
// {payload?, code, description} на любой не-2xx ответ. Ядро клиента
// реализует этот диалект один раз, типизированные обёртки сервисов
// описывают только endpoint'ы и режим авторизации каждого вызова.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/pkg/circuitbreaker"
	"example.com/saga-coordinator/pkg/logger"
)

// Имена downstream сервисов. Используются в метриках, логах
// и именах circuit breaker'ов.
const (
	ServiceUsers         = "users"
	ServiceStores        = "stores"
	ServiceOrders        = "orders"
	ServiceBilling       = "billing"
	ServiceDelivery      = "delivery"
	ServiceWarehouses    = "warehouses"
	ServiceNotifications = "notifications"
)

// Core — общее ядро HTTP клиентов: один пул соединений на все
// сервисы и circuit breaker на каждый сервис.
type Core struct {
	http     *http.Client
	breakers map[string]*circuitbreaker.Breaker
	retries  int
}

// NewCore создаёт ядро клиентов из конфигурации downstream сервисов.
func NewCore(cfg config.DownstreamConfig) *Core {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns * 7,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}

	services := []string{
		ServiceUsers, ServiceStores, ServiceOrders, ServiceBilling,
		ServiceDelivery, ServiceWarehouses, ServiceNotifications,
	}
	breakers := make(map[string]*circuitbreaker.Breaker, len(services))
	for _, service := range services {
		breakers[service] = circuitbreaker.New(service)
	}

	logger.Info().
		Dur("timeout", cfg.Timeout).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Int("retries", cfg.Retries).
		Msg("Создано ядро HTTP клиентов")

	return &Core{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		breakers: breakers,
		retries:  cfg.Retries,
	}
}

// do выполняет один вызов downstream сервиса.
//
// Тело in сериализуется в JSON, ответ 2xx разбирается в out (nil out
// отбрасывает тело). Не-2xx ответ возвращается как *domain.ClientError
// с разобранным конвертом ошибки, транспортный сбой — без конверта.
// Транспортные сбои GET запросов повторяются до retries раз, всё
// остальное не повторяется: побочный эффект мог уже примениться.
func (c *Core) do(ctx context.Context, service, method, rawURL string, headers domain.Headers, in, out any) error {
	log := logger.FromContext(ctx)

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("сериализация тела запроса %s %s: %w", method, rawURL, err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
		if err != nil {
			return fmt.Errorf("создание запроса %s %s: %w", method, rawURL, err)
		}

		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if headers.Authorization != "" {
			req.Header.Set(domain.HeaderAuthorization, headers.Authorization)
		}
		if headers.CorrelationID != "" {
			req.Header.Set(domain.HeaderCorrelationID, headers.CorrelationID)
		}
		if headers.RequestTimeout != "" {
			req.Header.Set(domain.HeaderRequestTimeout, headers.RequestTimeout)
		}
		if headers.Currency != "" {
			req.Header.Set(domain.HeaderCurrency, headers.Currency)
		}

		// Прокидываем trace context, чтобы downstream сервис продолжил span.
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		resp, err := c.breakers[service].Do(func() (*http.Response, error) {
			return c.http.Do(req)
		})
		if err != nil {
			lastErr = &domain.ClientError{Service: service, Method: method, Path: rawURL, Err: err}
			log.Warn().
				Err(err).
				Str("service", service).
				Str("method", method).
				Str("url", rawURL).
				Int("attempt", attempt).
				Msg("Транспортная ошибка downstream вызова")
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = &domain.ClientError{Service: service, Method: method, Path: rawURL, Err: readErr}
			continue
		}

		log.Debug().
			Str("service", service).
			Str("method", method).
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("Downstream вызов выполнен")

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return &domain.ClientError{
					Service: service,
					Method:  method,
					Path:    rawURL,
					Status:  resp.StatusCode,
					Err:     fmt.Errorf("разбор ответа: %w", err),
				}
			}
			return nil
		}

		clientErr := &domain.ClientError{Service: service, Method: method, Path: rawURL, Status: resp.StatusCode}
		var env domain.ErrorEnvelope
		if err := json.Unmarshal(data, &env); err == nil && (env.Description != "" || env.Code != 0 || len(env.Payload) > 0) {
			clientErr.Envelope = &env
		}
		return clientErr
	}

	return lastErr
}
