package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Orders — клиент orders microservice.
type Orders struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// ConvertCart конвертирует корзину покупателя в набор заказов:
// POST /create_from_cart. Заголовки проксируются как пришли.
func (o *Orders) ConvertCart(ctx context.Context, payload domain.ConvertCartPayload) ([]domain.Order, error) {
	urlStr := fmt.Sprintf("%s/create_from_cart", o.baseURL)
	var orders []domain.Order
	if err := o.core.do(ctx, ServiceOrders, "POST", urlStr, o.headers, payload, &orders); err != nil {
		return nil, fmt.Errorf("конвертация корзины в orders microservice: %w", err)
	}
	return orders, nil
}

// RevertConvertCart откатывает конвертацию корзины: POST /create_from_cart/revert.
// Компенсация, выполняется от супер-админа.
func (o *Orders) RevertConvertCart(ctx context.Context, conversionID string) error {
	urlStr := fmt.Sprintf("%s/create_from_cart/revert", o.baseURL)
	payload := domain.ConvertCartRevert{ConversionID: conversionID}
	return o.core.do(ctx, ServiceOrders, "POST", urlStr, o.headers.AsSuperAdmin(), payload, nil)
}

// GetByID читает заказ от имени покупателя: GET /orders/by-id/{id}.
// Возвращает nil без ошибки, если заказа нет.
func (o *Orders) GetByID(ctx context.Context, orderID string, customerID int64) (*domain.Order, error) {
	urlStr := fmt.Sprintf("%s/orders/by-id/%s", o.baseURL, orderID)
	var order *domain.Order
	err := o.core.do(ctx, ServiceOrders, "GET", urlStr, o.headers.AsUser(customerID), nil, &order)
	if err != nil {
		return nil, fmt.Errorf("чтение заказа в orders microservice: %w", err)
	}
	return order, nil
}

// SetStateByID переводит заказ в новый статус: PUT /orders/by-id/{id}/status.
// Запрос от супер-админа, статусы по данным billing не требуют владельца.
func (o *Orders) SetStateByID(ctx context.Context, orderID string, payload domain.UpdateStatePayload) (*domain.Order, error) {
	urlStr := fmt.Sprintf("%s/orders/by-id/%s/status", o.baseURL, orderID)
	var order *domain.Order
	err := o.core.do(ctx, ServiceOrders, "PUT", urlStr, o.headers.AsSuperAdmin(), payload, &order)
	if err != nil {
		return nil, fmt.Errorf("смена статуса заказа в orders microservice: %w", err)
	}
	return order, nil
}

// GetBySlug читает заказ по человекочитаемому номеру: GET /orders/by-slug/{slug}.
// Заголовки проксируются, права проверяет сам orders microservice.
func (o *Orders) GetBySlug(ctx context.Context, slug int64) (*domain.Order, error) {
	urlStr := fmt.Sprintf("%s/orders/by-slug/%d", o.baseURL, slug)
	var order *domain.Order
	err := o.core.do(ctx, ServiceOrders, "GET", urlStr, o.headers, nil, &order)
	if err != nil {
		return nil, fmt.Errorf("чтение заказа в orders microservice: %w", err)
	}
	return order, nil
}

// SetStateBySlug переводит заказ в новый статус по номеру:
// PUT /orders/by-slug/{slug}/status. Заголовки проксируются как пришли.
func (o *Orders) SetStateBySlug(ctx context.Context, slug int64, payload domain.UpdateStatePayload) (*domain.Order, error) {
	urlStr := fmt.Sprintf("%s/orders/by-slug/%d/status", o.baseURL, slug)
	var order *domain.Order
	err := o.core.do(ctx, ServiceOrders, "PUT", urlStr, o.headers, payload, &order)
	if err != nil {
		return nil, fmt.Errorf("смена статуса заказа в orders microservice: %w", err)
	}
	return order, nil
}
