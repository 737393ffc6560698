// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/internal/httputil"
	"example.com/saga-coordinator/pkg/logger"
)

// Релевантные поля ошибок валидации для саги аккаунта. Остальные
// полевые ошибки downstream сервисов наружу не показываются.
var accountValidationFields = []string{"email", "password", "phone"}

// AccountHandler — обработчик саги аккаунтов.
type AccountHandler struct {
	accounts  AccountService
	responder *Responder
}

// NewAccountHandler создаёт обработчик саги аккаунтов.
func NewAccountHandler(accounts AccountService, responder *Responder) *AccountHandler {
	return &AccountHandler{accounts: accounts, responder: responder}
}

// CreateAccount запускает сагу создания аккаунта.
// POST /create_account
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.SagaCreateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса создания аккаунта")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	user, err := h.accounts.Create(ctx, httputil.ExtractHeaders(c), req)
	if err != nil {
		h.responder.RespondError(c, err, accountValidationFields...)
		return
	}

	c.JSON(http.StatusOK, user)
}

// EmailVerify повторно запускает подтверждение почты.
// POST /email_verify
func (h *AccountHandler) EmailVerify(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса подтверждения почты")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	if err := h.accounts.RequestEmailVerify(ctx, httputil.ExtractHeaders(c), req); err != nil {
		h.responder.RespondError(c, err, accountValidationFields...)
		return
	}

	c.JSON(http.StatusOK, nil)
}

// EmailVerifyApply применяет токен подтверждения почты.
// POST /email_verify_apply
func (h *AccountHandler) EmailVerifyApply(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.EmailVerifyApply
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса применения токена почты")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	if err := h.accounts.ApplyEmailVerify(ctx, httputil.ExtractHeaders(c), req); err != nil {
		h.responder.RespondError(c, err, accountValidationFields...)
		return
	}

	c.JSON(http.StatusOK, nil)
}

// ResetPassword запускает сброс пароля.
// POST /reset_password
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса сброса пароля")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	if err := h.accounts.RequestPasswordReset(ctx, httputil.ExtractHeaders(c), req); err != nil {
		h.responder.RespondError(c, err, accountValidationFields...)
		return
	}

	c.JSON(http.StatusOK, nil)
}

// ResetPasswordApply применяет токен сброса пароля.
// POST /reset_password_apply
func (h *AccountHandler) ResetPasswordApply(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req domain.PasswordResetApply
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Невалидное тело запроса применения токена пароля")
		h.responder.RespondError(c, domain.NewParse("Невалидное тело запроса", err))
		return
	}

	if err := h.accounts.ApplyPasswordReset(ctx, httputil.ExtractHeaders(c), req); err != nil {
		h.responder.RespondError(c, err, accountValidationFields...)
		return
	}

	c.JSON(http.StatusOK, nil)
}
