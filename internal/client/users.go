package client

import (
	"context"
	"fmt"
	"net/url"

	"example.com/saga-coordinator/internal/domain"
)

// Users — клиент users microservice.
type Users struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// Create создаёт аккаунт: POST /users.
// Авторизация вызывающего прокидывается как есть.
func (u *Users) Create(ctx context.Context, profile domain.SagaCreateProfile) (*domain.User, error) {
	var user domain.User
	err := u.core.do(ctx, ServiceUsers, "POST", u.baseURL+"/users", u.headers, profile, &user)
	if err != nil {
		return nil, fmt.Errorf("создание пользователя в users microservice: %w", err)
	}
	return &user, nil
}

// AssignDefaultRole назначает роль по умолчанию: POST /roles/default/{user_id}.
func (u *Users) AssignDefaultRole(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/roles/default/%d", u.baseURL, userID)
	if err := u.core.do(ctx, ServiceUsers, "POST", urlStr, u.headers, nil, nil); err != nil {
		return fmt.Errorf("назначение роли в users microservice: %w", err)
	}
	return nil
}

// DeleteDefaultRole снимает роль по умолчанию: DELETE /roles/default/{user_id}.
// Компенсация, выполняется от супер-админа.
func (u *Users) DeleteDefaultRole(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/roles/default/%d", u.baseURL, userID)
	return u.core.do(ctx, ServiceUsers, "DELETE", urlStr, u.headers.AsSuperAdmin(), nil, nil)
}

// DeleteBySagaID удаляет пользователя по saga id: DELETE /user_by_saga_id/{saga_id}.
// Компенсация создания аккаунта, выполняется от супер-админа.
func (u *Users) DeleteBySagaID(ctx context.Context, sagaID string) error {
	urlStr := fmt.Sprintf("%s/user_by_saga_id/%s", u.baseURL, sagaID)
	return u.core.do(ctx, ServiceUsers, "DELETE", urlStr, u.headers.AsSuperAdmin(), nil, nil)
}

// Get возвращает пользователя по id: GET /users/{user_id}.
// Запрос выполняется от имени самого пользователя; nil без ошибки
// означает, что пользователь не найден.
func (u *Users) Get(ctx context.Context, userID int64) (*domain.User, error) {
	urlStr := fmt.Sprintf("%s/users/%d", u.baseURL, userID)
	var user *domain.User
	err := u.core.do(ctx, ServiceUsers, "GET", urlStr, u.headers.AsUser(userID), nil, &user)
	if err != nil {
		return nil, fmt.Errorf("получение пользователя из users microservice: %w", err)
	}
	return user, nil
}

// GetByEmail ищет пользователя по почте: GET /users/by_email?email=….
// Выполняется от супер-админа; nil без ошибки означает отсутствие.
func (u *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	urlStr := fmt.Sprintf("%s/users/by_email?email=%s", u.baseURL, url.QueryEscape(email))
	var user *domain.User
	err := u.core.do(ctx, ServiceUsers, "GET", urlStr, u.headers.AsSuperAdmin(), nil, &user)
	if err != nil {
		return nil, fmt.Errorf("поиск пользователя по почте в users microservice: %w", err)
	}
	return user, nil
}

// CreateEmailVerifyToken чеканит токен подтверждения почты:
// POST /users/email_verify_token. Запрос выполняется от имени
// пользователя, чья почта подтверждается.
func (u *Users) CreateEmailVerifyToken(ctx context.Context, req domain.ResetRequest, userID int64) (string, error) {
	var token string
	err := u.core.do(ctx, ServiceUsers, "POST", u.baseURL+"/users/email_verify_token", u.headers.AsUser(userID), req, &token)
	if err != nil {
		return "", fmt.Errorf("создание токена подтверждения почты в users microservice: %w", err)
	}
	return token, nil
}

// ApplyEmailVerifyToken применяет токен подтверждения почты:
// PUT /users/email_verify_token?token=…. Возвращает почту пользователя.
func (u *Users) ApplyEmailVerifyToken(ctx context.Context, apply domain.EmailVerifyApply) (string, error) {
	urlStr := fmt.Sprintf("%s/users/email_verify_token?token=%s", u.baseURL, url.QueryEscape(apply.Token))
	var email string
	err := u.core.do(ctx, ServiceUsers, "PUT", urlStr, u.headers.AsSuperAdmin(), apply, &email)
	if err != nil {
		return "", fmt.Errorf("применение токена подтверждения почты в users microservice: %w", err)
	}
	return email, nil
}

// CreatePasswordResetToken чеканит токен сброса пароля:
// POST /users/password_reset_token. Запрос выполняется от имени
// пользователя, восстанавливающего пароль.
func (u *Users) CreatePasswordResetToken(ctx context.Context, req domain.ResetRequest, userID int64) (string, error) {
	var token string
	err := u.core.do(ctx, ServiceUsers, "POST", u.baseURL+"/users/password_reset_token", u.headers.AsUser(userID), req, &token)
	if err != nil {
		return "", fmt.Errorf("создание токена сброса пароля в users microservice: %w", err)
	}
	return token, nil
}

// ApplyPasswordResetToken применяет токен сброса пароля:
// PUT /users/password_reset_token. Возвращает почту пользователя.
func (u *Users) ApplyPasswordResetToken(ctx context.Context, apply domain.PasswordResetApply) (string, error) {
	var email string
	err := u.core.do(ctx, ServiceUsers, "PUT", u.baseURL+"/users/password_reset_token", u.headers.AsSuperAdmin(), apply, &email)
	if err != nil {
		return "", fmt.Errorf("применение токена сброса пароля в users microservice: %w", err)
	}
	return email, nil
}
