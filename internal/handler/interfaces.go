// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"context"

	"example.com/saga-coordinator/internal/domain"
)

// AccountService — сага создания аккаунта и сценарии токенов.
// Позволяет мокировать сагу в тестах обработчиков.
type AccountService interface {
	// Create выполняет сагу создания аккаунта.
	Create(ctx context.Context, headers domain.Headers, profile domain.SagaCreateProfile) (*domain.User, error)

	// RequestEmailVerify чеканит токен подтверждения почты и шлёт письмо.
	RequestEmailVerify(ctx context.Context, headers domain.Headers, req domain.ResetRequest) error

	// ApplyEmailVerify применяет токен подтверждения почты.
	ApplyEmailVerify(ctx context.Context, headers domain.Headers, req domain.EmailVerifyApply) error

	// RequestPasswordReset чеканит токен сброса пароля и шлёт письмо.
	RequestPasswordReset(ctx context.Context, headers domain.Headers, req domain.ResetRequest) error

	// ApplyPasswordReset применяет токен сброса пароля.
	ApplyPasswordReset(ctx context.Context, headers domain.Headers, req domain.PasswordResetApply) error
}

// StoreService — сага создания магазина.
type StoreService interface {
	// Create выполняет сагу создания магазина.
	Create(ctx context.Context, headers domain.Headers, store domain.NewStore) (*domain.Store, error)
}

// OrderService — сага создания заказа и смена статусов заказов.
type OrderService interface {
	// Create выполняет сагу создания заказа из корзины.
	Create(ctx context.Context, headers domain.Headers, cart domain.ConvertCart) (*domain.Invoice, error)

	// BuyNow оформляет покупку одного товара в обход корзины.
	BuyNow(ctx context.Context, headers domain.Headers, buy domain.BuyNow) (*domain.Invoice, error)

	// UpdateStateByBilling применяет пакет смен статусов от billing.
	UpdateStateByBilling(ctx context.Context, headers domain.Headers, updates domain.BillingOrdersVec) error

	// ManualSetState переводит заказ в статус по его номеру.
	ManualSetState(ctx context.Context, headers domain.Headers, slug int64, payload domain.UpdateStatePayload) (*domain.Order, error)
}
