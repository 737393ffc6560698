// Package saga содержит фальшивую платформу для тестов саг.
// Каждый downstream сервис поднимается отдельным httptest сервером,
// вызовы записываются в общий журнал, по которому проверяется порядок
// шагов и компенсаций.
package saga

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"example.com/saga-coordinator/internal/client"
	"example.com/saga-coordinator/internal/config"
)

// recordedCall — один записанный вызов downstream сервиса.
type recordedCall struct {
	Method        string
	Path          string
	Query         url.Values
	Auth          string
	Currency      string
	CorrelationID string
	Body          []byte
}

// decode разбирает тело вызова в out.
func (c recordedCall) decode(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, out); err != nil {
		t.Fatalf("тело вызова %s %s не разобрано: %v", c.Method, c.Path, err)
	}
}

// stubResponse — заготовленный ответ сервиса.
type stubResponse struct {
	status int
	body   any
}

// callJournal — общий журнал вызовов всей платформы. Нужен там, где
// важен порядок вызовов между разными сервисами, например при откате.
type callJournal struct {
	mu      sync.Mutex
	entries []string
}

func (j *callJournal) append(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *callJournal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// =============================================================================
// fakeService — фальшивый downstream сервис
// =============================================================================

// fakeService отвечает заготовленными ответами и записывает вызовы.
// Без заготовки отвечает 200 null — этого достаточно для вызовов,
// результат которых сага не разбирает.
type fakeService struct {
	name    string
	journal *callJournal
	mu      sync.Mutex
	calls   []recordedCall
	stubs   map[string]stubResponse
	srv     *httptest.Server
}

func newFakeService(t *testing.T, name string, journal *callJournal) *fakeService {
	t.Helper()
	svc := &fakeService{name: name, journal: journal, stubs: map[string]stubResponse{}}
	svc.srv = httptest.NewServer(http.HandlerFunc(svc.serve))
	t.Cleanup(svc.srv.Close)
	return svc
}

func (s *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	call := recordedCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Auth:          r.Header.Get("Authorization"),
		Currency:      r.Header.Get("Currency"),
		CorrelationID: r.Header.Get("X-Correlation-ID"),
		Body:          body,
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	stub, ok := s.stubs[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	s.journal.append(s.name + " " + r.Method + " " + r.URL.Path)

	if !ok {
		stub = stubResponse{status: http.StatusOK}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stub.status)
	if stub.body != nil {
		_ = json.NewEncoder(w).Encode(stub.body)
		return
	}
	_, _ = w.Write([]byte("null"))
}

// stub назначает ответ на вызов метода и пути.
func (s *fakeService) stub(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[method+" "+path] = stubResponse{status: status, body: body}
}

// callsTo возвращает записанные вызовы точного метода и пути.
func (s *fakeService) callsTo(method, path string) []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedCall
	for _, call := range s.calls {
		if call.Method == method && call.Path == path {
			out = append(out, call)
		}
	}
	return out
}

// callsMatching возвращает вызовы метода с данным префиксом пути.
// Для путей с чеканёнными uuid, точное значение которых тест не знает.
func (s *fakeService) callsMatching(method, pathPrefix string) []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedCall
	for _, call := range s.calls {
		if call.Method == method && strings.HasPrefix(call.Path, pathPrefix) {
			out = append(out, call)
		}
	}
	return out
}

// callCount возвращает общее число вызовов сервиса.
func (s *fakeService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// =============================================================================
// testPlatform — фальшивая платформа целиком
// =============================================================================

// testPlatform поднимает все семь сервисов платформы и фабрику
// клиентов поверх них.
type testPlatform struct {
	journal       *callJournal
	users         *fakeService
	stores        *fakeService
	orders        *fakeService
	billing       *fakeService
	delivery      *fakeService
	warehouses    *fakeService
	notifications *fakeService
	factory       *client.Factory
}

func newTestPlatform(t *testing.T) *testPlatform {
	t.Helper()

	journal := &callJournal{}
	p := &testPlatform{
		journal:       journal,
		users:         newFakeService(t, "users", journal),
		stores:        newFakeService(t, "stores", journal),
		orders:        newFakeService(t, "orders", journal),
		billing:       newFakeService(t, "billing", journal),
		delivery:      newFakeService(t, "delivery", journal),
		warehouses:    newFakeService(t, "warehouses", journal),
		notifications: newFakeService(t, "notifications", journal),
	}

	cfg := config.DownstreamConfig{
		UsersURL:         p.users.srv.URL,
		StoresURL:        p.stores.srv.URL,
		OrdersURL:        p.orders.srv.URL,
		BillingURL:       p.billing.srv.URL,
		DeliveryURL:      p.delivery.srv.URL,
		WarehousesURL:    p.warehouses.srv.URL,
		NotificationsURL: p.notifications.srv.URL,
		Timeout:          5 * time.Second,
		MaxIdleConns:     2,
	}
	p.factory = client.NewFactory(client.NewCore(cfg), cfg)
	return p
}

// deletions возвращает компенсирующие вызовы платформы в порядке
// выполнения, в формате "сервис METHOD путь".
func (p *testPlatform) deletions() []string {
	var out []string
	for _, entry := range p.journal.list() {
		if strings.Contains(entry, " DELETE ") {
			out = append(out, entry)
		}
	}
	return out
}

// testNotificationConfig — конфигурация писем для тестов.
func testNotificationConfig() config.NotificationConfig {
	return config.NotificationConfig{
		ClusterURL:        "https://app.test",
		VerifyEmailPath:   "verify_email",
		ResetPasswordPath: "reset_password",
	}
}
