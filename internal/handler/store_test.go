// Package handler содержит unit тесты для StoreHandler.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/saga-coordinator/internal/domain"
)

// MockStoreService — мок для StoreService.
type MockStoreService struct {
	CreateFunc func(ctx context.Context, headers domain.Headers, store domain.NewStore) (*domain.Store, error)
}

func (m *MockStoreService) Create(ctx context.Context, headers domain.Headers, store domain.NewStore) (*domain.Store, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, headers, store)
	}
	return nil, nil
}

// setupStoreRouter создаёт Gin router с маршрутом саги магазинов.
func setupStoreRouter(mock *MockStoreService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewStoreHandler(mock, testResponder())
	r.POST("/create_store", handler.CreateStore)

	return r
}

// validNewStore возвращает валидный запрос создания магазина.
func validNewStore() domain.NewStore {
	return domain.NewStore{
		UserID:           42,
		Name:             json.RawMessage(`[{"lang":"en","text":"Crystal Shop"}]`),
		ShortDescription: json.RawMessage(`[{"lang":"en","text":"Handmade crystals"}]`),
		Slug:             "crystal-shop",
		DefaultLanguage:  "en",
	}
}

// =====================================
// Тесты CreateStore
// =====================================

func TestCreateStore_Success(t *testing.T) {
	mock := &MockStoreService{
		CreateFunc: func(_ context.Context, headers domain.Headers, store domain.NewStore) (*domain.Store, error) {
			assert.Equal(t, "owner-token", headers.Authorization)
			assert.Equal(t, int64(42), store.UserID)
			assert.Equal(t, "crystal-shop", store.Slug)
			return &domain.Store{ID: 77, UserID: store.UserID, Slug: store.Slug}, nil
		},
	}
	router := setupStoreRouter(mock)

	w := postJSON(router, "/create_store", validNewStore(), map[string]string{
		domain.HeaderAuthorization: "owner-token",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var store domain.Store
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &store))
	assert.Equal(t, int64(77), store.ID)
	assert.Equal(t, "crystal-shop", store.Slug)
}

func TestCreateStore_InvalidBody(t *testing.T) {
	router := setupStoreRouter(&MockStoreService{})

	req := httptest.NewRequest(http.MethodPost, "/create_store", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "parse", resp.Error)
}

func TestCreateStore_ValidationError(t *testing.T) {
	mock := &MockStoreService{
		CreateFunc: func(_ context.Context, _ domain.Headers, _ domain.NewStore) (*domain.Store, error) {
			return nil, &domain.ClientError{
				Service: "stores",
				Status:  400,
				Envelope: &domain.ErrorEnvelope{
					Payload:     json.RawMessage(`{"slug":[{"code":"exists","message":"Store with this slug already exists"}]}`),
					Code:        400,
					Description: "Validation error",
				},
			}
		},
	}
	router := setupStoreRouter(mock)

	w := postJSON(router, "/create_store", validNewStore(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"slug":[{"code":"exists","message":"Store with this slug already exists"}]}`, w.Body.String())
}

func TestCreateStore_Forbidden(t *testing.T) {
	mock := &MockStoreService{
		CreateFunc: func(_ context.Context, _ domain.Headers, _ domain.NewStore) (*domain.Store, error) {
			return nil, &domain.ClientError{
				Service:  "stores",
				Status:   403,
				Envelope: &domain.ErrorEnvelope{Code: 403, Description: "Access denied"},
			}
		},
	}
	router := setupStoreRouter(mock)

	w := postJSON(router, "/create_store", validNewStore(), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "forbidden", resp.Error)
	assert.Equal(t, "Access denied", resp.Message)
}
