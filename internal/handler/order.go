// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/internal/httputil"
	"example.com/saga-coordinator/pkg/logger"
)

// Релевантные поля ошибок валидации для саги заказа.
var orderValidationFields = []string{"email", "password", "phone"}

// OrderHandler — обработчик саги заказов.
type OrderHandler struct {
	orders    OrderService
	responder *Responder
}

// NewOrderHandler создаёт обработчик саги заказов.
func NewOrderHandler(orders OrderService, responder *Responder) *OrderHandler {
	return &OrderHandler{orders: orders, responder: responder}
}

// CreateOrder запускает сагу создания заказа из корзины.
// POST /create_order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.ConvertCart
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса создания заказа")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	invoice, err := h.orders.Create(ctx, httputil.ExtractHeaders(c), req)
	if err != nil {
		h.responder.RespondError(c, err, orderValidationFields...)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// BuyNow оформляет покупку одного товара в обход корзины.
// POST /buy_now
func (h *OrderHandler) BuyNow(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.BuyNow
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса покупки")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	invoice, err := h.orders.BuyNow(ctx, httputil.ExtractHeaders(c), req)
	if err != nil {
		h.responder.RespondError(c, err, orderValidationFields...)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateStateByBilling применяет пакет смен статусов заказов от billing.
// POST /orders/update_state
func (h *OrderHandler) UpdateStateByBilling(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.BillingOrdersVec
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело пакета смен статусов")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	if err := h.orders.UpdateStateByBilling(ctx, httputil.ExtractHeaders(c), req); err != nil {
		h.responder.RespondError(c, err, orderValidationFields...)
		return
	}

	c.JSON(http.StatusOK, nil)
}

// SetState переводит заказ в статус по его номеру.
// POST /orders/:slug/set_state
func (h *OrderHandler) SetState(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	slug, err := strconv.ParseInt(c.Param("slug"), 10, 64)
	if err != nil {
		log.Debug().Err(err).Str("slug", c.Param("slug")).Msg("Невалидный номер заказа")
		h.responder.RespondError(c, domain.NewParse("Невалидный номер заказа", err))
		return
	}

	var req domain.UpdateStatePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело смены статуса")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	order, err := h.orders.ManualSetState(ctx, httputil.ExtractHeaders(c), slug, req)
	if err != nil {
		h.responder.RespondError(c, err, orderValidationFields...)
		return
	}

	c.JSON(http.StatusOK, order)
}
