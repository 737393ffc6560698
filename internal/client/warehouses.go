package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Warehouses — клиент warehouses microservice.
// Роли и остатки правит только супер-админ.
type Warehouses struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// AssignRole назначает складскую роль: POST /roles/by_user_id/{user_id}.
func (w *Warehouses) AssignRole(ctx context.Context, userID int64, role domain.NewWarehouseRole) error {
	urlStr := fmt.Sprintf("%s/roles/by_user_id/%d", w.baseURL, userID)
	if err := w.core.do(ctx, ServiceWarehouses, "POST", urlStr, w.headers.AsSuperAdmin(), role, nil); err != nil {
		return fmt.Errorf("назначение роли в warehouses microservice: %w", err)
	}
	return nil
}

// DeleteRole снимает складскую роль: DELETE /roles/by_user_id/{user_id}.
// Компенсация, выполняется от супер-админа.
func (w *Warehouses) DeleteRole(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/roles/by_user_id/%d", w.baseURL, userID)
	return w.core.do(ctx, ServiceWarehouses, "DELETE", urlStr, w.headers.AsSuperAdmin(), nil, nil)
}

// FindByProduct возвращает остатки товара по складам: GET /by-product/{product_id}.
func (w *Warehouses) FindByProduct(ctx context.Context, productID int64) ([]domain.Stock, error) {
	urlStr := fmt.Sprintf("%s/by-product/%d", w.baseURL, productID)
	var stocks []domain.Stock
	err := w.core.do(ctx, ServiceWarehouses, "GET", urlStr, w.headers.AsSuperAdmin(), nil, &stocks)
	if err != nil {
		return nil, fmt.Errorf("поиск остатков в warehouses microservice: %w", err)
	}
	return stocks, nil
}

// SetProductQuantity выставляет остаток товара на складе:
// PUT /{warehouse_id}/products/{product_id}.
func (w *Warehouses) SetProductQuantity(ctx context.Context, warehouseID string, productID int64, quantity int32) error {
	urlStr := fmt.Sprintf("%s/%s/products/%d", w.baseURL, warehouseID, productID)
	payload := domain.StockSetPayload{Quantity: quantity}
	if err := w.core.do(ctx, ServiceWarehouses, "PUT", urlStr, w.headers.AsSuperAdmin(), payload, nil); err != nil {
		return fmt.Errorf("обновление остатка в warehouses microservice: %w", err)
	}
	return nil
}
