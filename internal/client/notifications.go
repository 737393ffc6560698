package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Notifications — клиент notifications microservice.
// Все письма отправляются от супер-админа, ошибки отправки
// саги подавляют на своей стороне.
type Notifications struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// SendEmailVerification шлёт письмо с токеном подтверждения почты:
// POST /users/email-verification.
func (n *Notifications) SendEmailVerification(ctx context.Context, email domain.EmailVerificationForUser) error {
	urlStr := fmt.Sprintf("%s/users/email-verification", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendPasswordReset шлёт письмо с токеном сброса пароля:
// POST /users/password-reset.
func (n *Notifications) SendPasswordReset(ctx context.Context, email domain.PasswordResetForUser) error {
	urlStr := fmt.Sprintf("%s/users/password-reset", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendApplyPasswordReset шлёт подтверждение смены пароля:
// POST /users/apply-password-reset.
func (n *Notifications) SendApplyPasswordReset(ctx context.Context, email domain.ApplyPasswordResetForUser) error {
	urlStr := fmt.Sprintf("%s/users/apply-password-reset", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendApplyEmailVerification шлёт подтверждение верификации почты:
// POST /users/apply-email-verification.
func (n *Notifications) SendApplyEmailVerification(ctx context.Context, email domain.ApplyEmailVerificationForUser) error {
	urlStr := fmt.Sprintf("%s/users/apply-email-verification", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendOrderCreateForUser уведомляет покупателя о создании заказа:
// POST /users/order-create.
func (n *Notifications) SendOrderCreateForUser(ctx context.Context, email domain.OrderCreateForUser) error {
	urlStr := fmt.Sprintf("%s/users/order-create", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendOrderUpdateStateForUser уведомляет покупателя о смене статуса:
// POST /users/order-update-state.
func (n *Notifications) SendOrderUpdateStateForUser(ctx context.Context, email domain.OrderUpdateStateForUser) error {
	urlStr := fmt.Sprintf("%s/users/order-update-state", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendOrderCreateForStore уведомляет магазин о новом заказе:
// POST /stores/order-create.
func (n *Notifications) SendOrderCreateForStore(ctx context.Context, email domain.OrderCreateForStore) error {
	urlStr := fmt.Sprintf("%s/stores/order-create", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}

// SendOrderUpdateStateForStore уведомляет магазин о смене статуса заказа:
// POST /stores/order-update-state.
func (n *Notifications) SendOrderUpdateStateForStore(ctx context.Context, email domain.OrderUpdateStateForStore) error {
	urlStr := fmt.Sprintf("%s/stores/order-update-state", n.baseURL)
	if err := n.core.do(ctx, ServiceNotifications, "POST", urlStr, n.headers.AsSuperAdmin(), email, nil); err != nil {
		return fmt.Errorf("отправка письма в notifications microservice: %w", err)
	}
	return nil
}
