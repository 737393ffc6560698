// Package client содержит unit тесты ядра HTTP клиентов.
package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/domain"
)

func testCore(retries int) *Core {
	return NewCore(config.DownstreamConfig{
		Timeout:      2 * time.Second,
		MaxIdleConns: 2,
		Retries:      retries,
	})
}

// =====================================
// Тесты успешных вызовов
// =====================================

func TestCore_SuccessDecodeAndHeaders(t *testing.T) {
	var gotAuth, gotCurrency, gotCorrelation, gotTimeout string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCurrency = r.Header.Get("Currency")
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		gotTimeout = r.Header.Get("Request-Timeout")

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stores", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":77,"user_id":42,"slug":"crystal-shop"}`))
	}))
	defer srv.Close()

	stores := &Stores{
		core:    testCore(0),
		baseURL: srv.URL,
		headers: domain.Headers{
			Authorization:  "owner-token",
			CorrelationID:  "corr-1",
			RequestTimeout: "30000",
		}.WithCurrency(domain.CurrencySTQ),
	}

	store, err := stores.Create(context.Background(), domain.NewStore{UserID: 42, Slug: "crystal-shop"})

	require.NoError(t, err)
	assert.Equal(t, int64(77), store.ID)

	// Все заголовки платформы дошли до сервиса
	assert.Equal(t, "owner-token", gotAuth)
	assert.Equal(t, "STQ", gotCurrency)
	assert.Equal(t, "corr-1", gotCorrelation)
	assert.Equal(t, "30000", gotTimeout)
}

func TestCore_NullResponseMeansAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	users := &Users{core: testCore(0), baseURL: srv.URL}

	user, err := users.Get(context.Background(), 9)

	// null — это отсутствие сущности, не ошибка
	require.NoError(t, err)
	assert.Nil(t, user)
}

// =====================================
// Тесты разбора ошибок
// =====================================

func TestCore_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"payload":{"email":[{"code":"email","message":"Invalid email format"}]},"code":400,"description":"Validation error"}`))
	}))
	defer srv.Close()

	users := &Users{core: testCore(0), baseURL: srv.URL}

	_, err := users.Create(context.Background(), domain.SagaCreateProfile{})

	require.Error(t, err)
	// Ошибка шага обёрнута, но конверт достаётся через errors.As
	assert.Contains(t, err.Error(), "создание пользователя")

	var clientErr *domain.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ServiceUsers, clientErr.Service)
	assert.Equal(t, 400, clientErr.Status)
	require.NotNil(t, clientErr.Envelope)
	assert.Equal(t, "Validation error", clientErr.Envelope.Description)

	fields, verr := clientErr.ValidationErrors()
	require.NoError(t, verr)
	assert.Contains(t, fields, "email")
}

func TestCore_ServerErrorKeepsEnvelope(t *testing.T) {
	// 5xx учитывается circuit breaker'ом как сбой, но тело ошибки
	// всё равно доходит до вызывающего кода
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":500,"description":"Internal error"}`))
	}))
	defer srv.Close()

	users := &Users{core: testCore(0), baseURL: srv.URL}

	_, err := users.Create(context.Background(), domain.SagaCreateProfile{})

	var clientErr *domain.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, 500, clientErr.Status)
	require.NotNil(t, clientErr.Envelope)
	assert.Equal(t, "Internal error", clientErr.Envelope.Description)
}

func TestCore_NonEnvelopeErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	users := &Users{core: testCore(0), baseURL: srv.URL}

	_, err := users.Create(context.Background(), domain.SagaCreateProfile{})

	var clientErr *domain.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, 502, clientErr.Status)
	// Не-JSON тело не притворяется конвертом
	assert.Nil(t, clientErr.Envelope)
}

func TestCore_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // сервер мёртв, соединение не установится

	users := &Users{core: testCore(0), baseURL: srv.URL}

	_, err := users.Get(context.Background(), 9)

	var clientErr *domain.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.True(t, clientErr.IsTransport())
	assert.Equal(t, 0, clientErr.Status)
}

// =====================================
// Тесты повторов
// =====================================

func TestCore_RetriesTransportFailuresOnGET(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		// Рвём соединение без ответа: транспортный сбой для клиента
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	users := &Users{core: testCore(2), baseURL: srv.URL}

	_, err := users.Get(context.Background(), 9)

	require.Error(t, err)
	// Первая попытка плюс два повтора
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestCore_DoesNotRetryPOST(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	users := &Users{core: testCore(2), baseURL: srv.URL}

	// POST не повторяется: побочный эффект мог уже примениться
	err := users.AssignDefaultRole(context.Background(), 9)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

// =====================================
// Тесты фабрики
// =====================================

func TestFactory_ForRequest(t *testing.T) {
	cfg := config.DownstreamConfig{
		UsersURL:         "http://users:8000",
		StoresURL:        "http://stores:8000",
		OrdersURL:        "http://orders:8000",
		BillingURL:       "http://billing:8000",
		DeliveryURL:      "http://delivery:8000",
		WarehousesURL:    "http://warehouses:8000",
		NotificationsURL: "http://notifications:8000",
		Timeout:          time.Second,
		MaxIdleConns:     1,
	}
	factory := NewFactory(NewCore(cfg), cfg)

	set := factory.ForRequest(domain.Headers{Authorization: "tok"})

	require.NotNil(t, set.Users)
	require.NotNil(t, set.Stores)
	require.NotNil(t, set.Orders)
	require.NotNil(t, set.Billing)
	require.NotNil(t, set.Delivery)
	require.NotNil(t, set.Warehouses)
	require.NotNil(t, set.Notifications)

	// Клиент stores всегда получает валюту платформы
	assert.Equal(t, domain.CurrencySTQ, set.Stores.headers.Currency)
	assert.Equal(t, "tok", set.Stores.headers.Authorization)
	// Остальные клиенты валюту не несут
	assert.Empty(t, set.Users.headers.Currency)
}
