package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/internal/report"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testResponder() *Responder {
	// Без Kafka продюсера sink только логирует
	return NewResponder(report.NewSink(nil, config.CrashReportConfig{}, "saga-coordinator"))
}

// =====================================
// Тесты Classify
// =====================================

func TestClassify_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKind   domain.ErrorKind
	}{
		{
			name:           "Parse → 400",
			err:            domain.NewParse("Невалидное тело запроса", errors.New("unexpected EOF")),
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.Parse,
		},
		{
			name:           "Validate → 400",
			err:            &domain.Error{Kind: domain.Validate, Message: "bad data"},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.Validate,
		},
		{
			name:           "Forbidden → 403",
			err:            domain.NewForbidden("Access denied"),
			expectedStatus: http.StatusForbidden,
			expectedKind:   domain.Forbidden,
		},
		{
			name:           "NotFound → 404",
			err:            domain.NewNotFound("User not found."),
			expectedStatus: http.StatusNotFound,
			expectedKind:   domain.NotFound,
		},
		{
			name:           "Unknown → 500",
			err:            &domain.Error{Kind: domain.Unknown, Message: "boom"},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   domain.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := Classify(tt.err)
			assert.Equal(t, tt.expectedStatus, cls.Status)
			assert.Equal(t, tt.expectedKind, cls.Kind)
		})
	}
}

func TestClassify_ClientErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            *domain.ClientError
		expectedStatus int
		expectedKind   domain.ErrorKind
	}{
		{
			name: "транспортный сбой → 500",
			err: &domain.ClientError{
				Service: "users",
				Method:  "POST",
				Path:    "http://users:8000/users",
				Err:     errors.New("connection refused"),
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   domain.HTTPClient,
		},
		{
			name: "403 проходит насквозь",
			err: &domain.ClientError{
				Service:  "stores",
				Status:   403,
				Envelope: &domain.ErrorEnvelope{Code: 403, Description: "Access denied"},
			},
			expectedStatus: http.StatusForbidden,
			expectedKind:   domain.Forbidden,
		},
		{
			name: "404 проходит насквозь",
			err: &domain.ClientError{
				Service:  "orders",
				Status:   404,
				Envelope: &domain.ErrorEnvelope{Code: 404, Description: "Order not found"},
			},
			expectedStatus: http.StatusNotFound,
			expectedKind:   domain.NotFound,
		},
		{
			name: "400 с payload → ошибка валидации",
			err: &domain.ClientError{
				Service: "users",
				Status:  400,
				Envelope: &domain.ErrorEnvelope{
					Payload:     json.RawMessage(`{"email":[{"code":"email","message":"Invalid email format"}]}`),
					Code:        400,
					Description: "Validation error",
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   domain.Validate,
		},
		{
			name: "400 без payload → 500",
			err: &domain.ClientError{
				Service:  "users",
				Status:   400,
				Envelope: &domain.ErrorEnvelope{Code: 400, Description: "Bad request"},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   domain.Unknown,
		},
		{
			name: "500 downstream → 500",
			err: &domain.ClientError{
				Service:  "billing",
				Status:   500,
				Envelope: &domain.ErrorEnvelope{Code: 500, Description: "Internal error"},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   domain.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Ошибка шага приходит обёрнутой сагой
			wrapped := fmt.Errorf("создание пользователя в users microservice: %w", tt.err)
			cls := Classify(wrapped, "email", "password", "phone")
			assert.Equal(t, tt.expectedStatus, cls.Status)
			assert.Equal(t, tt.expectedKind, cls.Kind)
		})
	}
}

func TestClassify_FiltersValidationFields(t *testing.T) {
	clientErr := &domain.ClientError{
		Service: "users",
		Status:  400,
		Envelope: &domain.ErrorEnvelope{
			Payload: json.RawMessage(`{
				"email":[{"code":"email","message":"Invalid email format"},{"code":"exists","message":"Already registered"}],
				"internal_field":[{"code":"oops"}]
			}`),
			Code:        400,
			Description: "Validation error",
		},
	}

	cls := Classify(clientErr, "email", "password", "phone")

	require.Contains(t, cls.Fields, "email")
	// Наружу уходит только первая запись релевантного поля
	assert.Len(t, cls.Fields["email"], 1)
	assert.NotContains(t, cls.Fields, "internal_field")
}

func TestClassify_PlainError(t *testing.T) {
	cls := Classify(errors.New("что-то сломалось"))

	assert.Equal(t, http.StatusInternalServerError, cls.Status)
	assert.Equal(t, domain.Unknown, cls.Kind)
	assert.Equal(t, "что-то сломалось", cls.Message)
}

// =====================================
// Тесты RespondError
// =====================================

func respondWith(t *testing.T, err error, fields ...string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/create_account", nil)

	testResponder().RespondError(c, err, fields...)
	return w
}

func TestRespondError_ValidationBody(t *testing.T) {
	clientErr := &domain.ClientError{
		Service: "users",
		Status:  400,
		Envelope: &domain.ErrorEnvelope{
			Payload:     json.RawMessage(`{"email":[{"code":"email","message":"Invalid email format"}]}`),
			Code:        400,
			Description: "Validation error",
		},
	}

	w := respondWith(t, clientErr, "email", "password", "phone")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// Тело ответа валидации — сама карта полевых ошибок
	assert.JSONEq(t, `{"email":[{"code":"email","message":"Invalid email format"}]}`, w.Body.String())
}

func TestRespondError_NotFoundBody(t *testing.T) {
	w := respondWith(t, domain.NewNotFound("User not found."))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "User not found.", resp.Message)
}

func TestRespondError_InternalBody(t *testing.T) {
	clientErr := &domain.ClientError{
		Service: "billing",
		Method:  "POST",
		Path:    "http://billing:8000/invoices",
		Err:     errors.New("connection refused"),
	}

	w := respondWith(t, clientErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "http_client", resp.Error)
}
