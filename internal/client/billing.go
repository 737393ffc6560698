package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Billing — клиент billing microservice.
// Управление ролями, мерчантами и инвойсами доступно только
// супер-админу, поэтому все вызовы выполняются от него.
type Billing struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// CreateRole назначает роль: POST /roles.
func (b *Billing) CreateRole(ctx context.Context, role domain.NewRole) (*domain.Role, error) {
	var created domain.Role
	err := b.core.do(ctx, ServiceBilling, "POST", b.baseURL+"/roles", b.headers.AsSuperAdmin(), role, &created)
	if err != nil {
		return nil, fmt.Errorf("назначение роли в billing microservice: %w", err)
	}
	return &created, nil
}

// DeleteRole снимает роль: DELETE /roles/by-id/{role_id}.
func (b *Billing) DeleteRole(ctx context.Context, roleID string) error {
	urlStr := fmt.Sprintf("%s/roles/by-id/%s", b.baseURL, roleID)
	return b.core.do(ctx, ServiceBilling, "DELETE", urlStr, b.headers.AsSuperAdmin(), nil, nil)
}

// CreateUserMerchant создаёт мерчанта пользователя: POST /merchants/user.
func (b *Billing) CreateUserMerchant(ctx context.Context, userID int64) (*domain.Merchant, error) {
	payload := domain.CreateUserMerchantPayload{ID: userID}
	var merchant domain.Merchant
	err := b.core.do(ctx, ServiceBilling, "POST", b.baseURL+"/merchants/user", b.headers.AsSuperAdmin(), payload, &merchant)
	if err != nil {
		return nil, fmt.Errorf("создание мерчанта в billing microservice: %w", err)
	}
	return &merchant, nil
}

// DeleteUserMerchant удаляет мерчанта пользователя: DELETE /merchants/user/{user_id}.
func (b *Billing) DeleteUserMerchant(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/merchants/user/%d", b.baseURL, userID)
	return b.core.do(ctx, ServiceBilling, "DELETE", urlStr, b.headers.AsSuperAdmin(), nil, nil)
}

// CreateStoreMerchant создаёт мерчанта магазина: POST /merchants/store.
func (b *Billing) CreateStoreMerchant(ctx context.Context, storeID int64) (*domain.Merchant, error) {
	payload := domain.CreateStoreMerchantPayload{ID: storeID}
	var merchant domain.Merchant
	err := b.core.do(ctx, ServiceBilling, "POST", b.baseURL+"/merchants/store", b.headers.AsSuperAdmin(), payload, &merchant)
	if err != nil {
		return nil, fmt.Errorf("создание мерчанта магазина в billing microservice: %w", err)
	}
	return &merchant, nil
}

// DeleteStoreMerchant удаляет мерчанта магазина: DELETE /merchants/store/{store_id}.
func (b *Billing) DeleteStoreMerchant(ctx context.Context, storeID int64) error {
	urlStr := fmt.Sprintf("%s/merchants/store/%d", b.baseURL, storeID)
	return b.core.do(ctx, ServiceBilling, "DELETE", urlStr, b.headers.AsSuperAdmin(), nil, nil)
}

// CreateInvoice выставляет инвойс: POST /invoices.
func (b *Billing) CreateInvoice(ctx context.Context, invoice domain.CreateInvoice) (*domain.Invoice, error) {
	var created domain.Invoice
	err := b.core.do(ctx, ServiceBilling, "POST", b.baseURL+"/invoices", b.headers.AsSuperAdmin(), invoice, &created)
	if err != nil {
		return nil, fmt.Errorf("создание инвойса в billing microservice: %w", err)
	}
	return &created, nil
}

// DeleteInvoiceBySagaID отзывает инвойс: DELETE /invoices/by-saga-id/{saga_id}.
// Компенсация выставления инвойса.
func (b *Billing) DeleteInvoiceBySagaID(ctx context.Context, sagaID string) error {
	urlStr := fmt.Sprintf("%s/invoices/by-saga-id/%s", b.baseURL, sagaID)
	return b.core.do(ctx, ServiceBilling, "DELETE", urlStr, b.headers.AsSuperAdmin(), nil, nil)
}
