// Package domain содержит unit тесты ошибок координатора.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================================
// Тесты ErrorKind
// =====================================

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{Unknown, "unknown"},
		{Parse, "parse"},
		{Validate, "validate"},
		{Forbidden, "forbidden"},
		{NotFound, "not_found"},
		{HTTPClient, "http_client"},
		{RPCClient, "rpc_client"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

// =====================================
// Тесты ValidationPayload.Filter
// =====================================

func TestValidationPayload_Filter(t *testing.T) {
	payload := ValidationPayload{
		"email": {
			json.RawMessage(`{"code":"email","message":"Invalid email format"}`),
			json.RawMessage(`{"code":"exists","message":"Already registered"}`),
		},
		"password": {
			json.RawMessage(`{"code":"length","message":"Too short"}`),
		},
		"interior": {
			json.RawMessage(`{"code":"unknown"}`),
		},
	}

	filtered := payload.Filter("email", "password", "phone")

	// Нерелевантное поле отброшено, phone в payload не было
	assert.Len(t, filtered, 2)
	assert.NotContains(t, filtered, "interior")
	assert.NotContains(t, filtered, "phone")

	// От каждого поля остаётся только первая запись
	require.Len(t, filtered["email"], 1)
	assert.JSONEq(t, `{"code":"email","message":"Invalid email format"}`, string(filtered["email"][0]))
	require.Len(t, filtered["password"], 1)
}

func TestValidationPayload_Filter_Empty(t *testing.T) {
	// Пустой payload фильтруется в пустую карту, не в nil
	filtered := ValidationPayload{}.Filter("email")
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)

	// Поле с пустым списком записей отбрасывается
	filtered = ValidationPayload{"email": {}}.Filter("email")
	assert.Empty(t, filtered)
}

// =====================================
// Тесты ClientError
// =====================================

func TestClientError_IsTransport(t *testing.T) {
	transportErr := &ClientError{
		Service: "users",
		Method:  "GET",
		Path:    "http://users:8000/users/1",
		Err:     errors.New("connection refused"),
	}
	assert.True(t, transportErr.IsTransport())

	statusErr := &ClientError{
		Service: "users",
		Method:  "GET",
		Path:    "http://users:8000/users/1",
		Status:  404,
	}
	assert.False(t, statusErr.IsTransport())
}

func TestClientError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClientError
		contains []string
	}{
		{
			name: "транспортная ошибка",
			err: &ClientError{
				Service: "billing",
				Method:  "POST",
				Path:    "http://billing:8000/invoices",
				Err:     errors.New("connection refused"),
			},
			contains: []string{"billing", "POST", "connection refused"},
		},
		{
			name: "ошибка с конвертом",
			err: &ClientError{
				Service:  "users",
				Method:   "POST",
				Path:     "http://users:8000/users",
				Status:   400,
				Envelope: &ErrorEnvelope{Code: 400, Description: "Validation error"},
			},
			contains: []string{"users", "400", "Validation error"},
		},
		{
			name: "статус без конверта",
			err: &ClientError{
				Service: "orders",
				Method:  "GET",
				Path:    "http://orders:8000/orders/by-slug/1",
				Status:  502,
			},
			contains: []string{"orders", "502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func TestClientError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	clientErr := &ClientError{Service: "users", Method: "GET", Path: "/users/1", Err: cause}

	// Причина достаётся через стандартные errors.Is / errors.As
	wrapped := fmt.Errorf("получение пользователя: %w", clientErr)
	assert.ErrorIs(t, wrapped, cause)

	var target *ClientError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "users", target.Service)
}

func TestClientError_ValidationErrors(t *testing.T) {
	payload := json.RawMessage(`{"email":[{"code":"email","message":"Invalid email format"}]}`)
	clientErr := &ClientError{
		Service:  "users",
		Status:   400,
		Envelope: &ErrorEnvelope{Code: 400, Description: "Validation error", Payload: payload},
	}

	fields, err := clientErr.ValidationErrors()
	require.NoError(t, err)
	require.Contains(t, fields, "email")
	assert.Len(t, fields["email"], 1)
}

func TestClientError_ValidationErrors_NoPayload(t *testing.T) {
	// 400 без payload — конверт есть, полевых ошибок нет
	clientErr := &ClientError{
		Service:  "users",
		Status:   400,
		Envelope: &ErrorEnvelope{Code: 400, Description: "Bad request"},
	}

	_, err := clientErr.ValidationErrors()
	assert.Error(t, err)
}

func TestClientError_ValidationErrors_MalformedPayload(t *testing.T) {
	// payload не карта полевых ошибок, а произвольный JSON
	clientErr := &ClientError{
		Service:  "users",
		Status:   400,
		Envelope: &ErrorEnvelope{Code: 400, Payload: json.RawMessage(`"plain string"`)},
	}

	_, err := clientErr.ValidationErrors()
	assert.Error(t, err)
}

// =====================================
// Тесты Error
// =====================================

func TestError_Message(t *testing.T) {
	notFound := NewNotFound("User not found.")
	assert.Equal(t, "User not found.", notFound.Error())
	assert.Equal(t, NotFound, notFound.Kind)

	forbidden := NewForbidden("Access denied")
	assert.Equal(t, Forbidden, forbidden.Kind)

	// Без сообщения отдаётся имя категории
	bare := &Error{Kind: Validate}
	assert.Equal(t, "validate", bare.Error())
}

func TestNewParse_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	parseErr := NewParse("Невалидное тело запроса", cause)

	assert.Equal(t, Parse, parseErr.Kind)
	assert.ErrorIs(t, parseErr, cause)
}
