// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/internal/httputil"
	"example.com/saga-coordinator/pkg/logger"
)

// Релевантные поля ошибок валидации для саги магазина.
var storeValidationFields = []string{
	"name",
	"short_description",
	"long_description",
	"slug",
	"phone",
	"email",
	"default_language",
}

// StoreHandler — обработчик саги магазинов.
type StoreHandler struct {
	stores    StoreService
	responder *Responder
}

// NewStoreHandler создаёт обработчик саги магазинов.
func NewStoreHandler(stores StoreService, responder *Responder) *StoreHandler {
	return &StoreHandler{stores: stores, responder: responder}
}

// CreateStore запускает сагу создания магазина.
// POST /create_store
func (h *StoreHandler) CreateStore(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.NewStore
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса создания магазина")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	store, err := h.stores.Create(ctx, httputil.ExtractHeaders(c), req)
	if err != nil {
		h.responder.RespondError(c, err, storeValidationFields...)
		return
	}

	c.JSON(http.StatusOK, store)
}
