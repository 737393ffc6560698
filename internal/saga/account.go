package saga

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"example.com/saga-coordinator/internal/client"
	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/pkg/logger"
	"example.com/saga-coordinator/pkg/metrics"
	"example.com/saga-coordinator/pkg/tracing"
)

// Имя саги создания аккаунта в логах и метриках.
const sagaCreateAccount = "create_account"

// =============================================================================
// AccountSaga — сага создания аккаунта
// =============================================================================

// AccountSaga создаёт аккаунт во всех сервисах платформы и обслуживает
// сценарии подтверждения почты и сброса пароля.
type AccountSaga struct {
	clients *client.Factory
	cfg     config.NotificationConfig
}

// NewAccountSaga создаёт сагу аккаунтов.
func NewAccountSaga(clients *client.Factory, cfg config.NotificationConfig) *AccountSaga {
	return &AccountSaga{clients: clients, cfg: cfg}
}

// Create выполняет сагу создания аккаунта: пользователь в users, роли
// по умолчанию в users и stores, роли в billing и delivery, мерчант в
// billing. При ошибке любого шага уже начатые шаги компенсируются в
// обратном порядке, наружу уходит исходная ошибка шага.
func (s *AccountSaga) Create(ctx context.Context, headers domain.Headers, profile domain.SagaCreateProfile) (*domain.User, error) {
	log := logger.FromContext(ctx)

	sagaID := uuid.New().String()
	profile = profile.WithSagaID(sagaID)

	// Все запросы к downstream сервисам собираются под одним span саги.
	ctx, span := tracing.StartSpan(ctx, "saga.create_account")
	defer span.End()
	span.SetAttributes(attribute.String("saga_id", sagaID))

	clients := s.clients.ForRequest(headers)
	oplog := NewOperationLog()

	user, err := s.forward(ctx, clients, oplog, sagaID, profile)
	if err != nil {
		log.Warn().Err(err).Str("saga_id", sagaID).Msg("Сага создания аккаунта откатывается")
		Rollback(ctx, oplog, sagaCreateAccount, &accountCompensator{clients: clients})
		metrics.RecordSaga(sagaCreateAccount, resultRolledBack)
		span.RecordError(err)
		span.SetStatus(codes.Error, resultRolledBack)
		return nil, err
	}

	// Аккаунт уже собран, падение уведомления его не отменяет.
	s.notifyEmailVerification(ctx, clients, profile, *user)

	metrics.RecordSaga(sagaCreateAccount, resultSuccess)
	span.SetStatus(codes.Ok, "")
	log.Info().
		Str("saga_id", sagaID).
		Int64("user_id", user.ID).
		Msg("Сага создания аккаунта завершена")

	return user, nil
}

// forward выполняет прямой ход саги, дописывая маркеры в журнал.
func (s *AccountSaga) forward(ctx context.Context, clients *client.Set, oplog *OperationLog, sagaID string, profile domain.SagaCreateProfile) (*domain.User, error) {
	oplog.Start(StageAccountCreation, sagaID)
	user, err := clients.Users.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	oplog.Complete(StageAccountCreation, sagaID)

	userKey := strconv.FormatInt(user.ID, 10)

	oplog.Start(StageUsersRoleSet, userKey)
	if err := clients.Users.AssignDefaultRole(ctx, user.ID); err != nil {
		return nil, err
	}
	oplog.Complete(StageUsersRoleSet, userKey)

	oplog.Start(StageStoreRoleSet, userKey)
	if err := clients.Stores.AssignDefaultRole(ctx, user.ID); err != nil {
		return nil, err
	}
	oplog.Complete(StageStoreRoleSet, userKey)

	billingRoleID := uuid.New().String()
	oplog.Start(StageBillingRoleSet, billingRoleID)
	if _, err := clients.Billing.CreateRole(ctx, domain.NewRole{
		ID:     billingRoleID,
		UserID: user.ID,
		Name:   domain.RoleUser,
	}); err != nil {
		return nil, err
	}
	oplog.Complete(StageBillingRoleSet, billingRoleID)

	deliveryRoleID := uuid.New().String()
	oplog.Start(StageDeliveryRoleSet, deliveryRoleID)
	if _, err := clients.Delivery.CreateRole(ctx, domain.NewRole{
		ID:     deliveryRoleID,
		UserID: user.ID,
		Name:   domain.RoleUser,
	}); err != nil {
		return nil, err
	}
	oplog.Complete(StageDeliveryRoleSet, deliveryRoleID)

	oplog.Start(StageBillingCreateMerchant, userKey)
	if _, err := clients.Billing.CreateUserMerchant(ctx, user.ID); err != nil {
		return nil, err
	}
	oplog.Complete(StageBillingCreateMerchant, userKey)

	return user, nil
}

// notifyEmailVerification чеканит токен подтверждения почты и шлёт
// письмо со ссылкой. Ошибки только логируются.
func (s *AccountSaga) notifyEmailVerification(ctx context.Context, clients *client.Set, profile domain.SagaCreateProfile, user domain.User) {
	log := logger.FromContext(ctx)

	token, err := clients.Users.CreateEmailVerifyToken(ctx, domain.ResetRequest{
		Email:   user.Email,
		Device:  profile.Device,
		Project: profile.Project,
	}, user.ID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Токен подтверждения почты не создан, письмо не отправлено")
		return
	}

	email := domain.EmailVerificationForUser{
		User:            domain.NewEmailUser(user),
		VerifyEmailPath: s.cfg.VerifyEmailURL(),
		Token:           token,
	}
	if err := clients.Notifications.SendEmailVerification(ctx, email); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Письмо подтверждения почты не отправлено")
	}
}

// =============================================================================
// Компенсации
// =============================================================================

// accountCompensator откатывает шаги саги создания аккаунта.
// Пользователь удаляется по id саги: падение могло случиться до того,
// как users вернул созданную запись.
type accountCompensator struct {
	clients *client.Set
}

func (c *accountCompensator) Compensate(ctx context.Context, m Marker) error {
	switch m.Stage {
	case StageAccountCreation:
		return c.clients.Users.DeleteBySagaID(ctx, m.Key)

	case StageUsersRoleSet:
		userID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Users.DeleteDefaultRole(ctx, userID)

	case StageStoreRoleSet:
		userID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Stores.DeleteDefaultRole(ctx, userID)

	case StageBillingRoleSet:
		return c.clients.Billing.DeleteRole(ctx, m.Key)

	case StageDeliveryRoleSet:
		return c.clients.Delivery.DeleteRole(ctx, m.Key)

	case StageBillingCreateMerchant:
		userID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Billing.DeleteUserMerchant(ctx, userID)

	default:
		return fmt.Errorf("неизвестный шаг саги создания аккаунта: %s", m.Stage)
	}
}

// =============================================================================
// Токены почты и пароля
// =============================================================================

// RequestEmailVerify повторно запускает подтверждение почты: чеканит
// токен и шлёт письмо со ссылкой. Журнал операций не ведётся, откатывать
// здесь нечего.
func (s *AccountSaga) RequestEmailVerify(ctx context.Context, headers domain.Headers, req domain.ResetRequest) error {
	clients := s.clients.ForRequest(headers)

	user, err := clients.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User not found.")
	}

	token, err := clients.Users.CreateEmailVerifyToken(ctx, req, user.ID)
	if err != nil {
		return err
	}

	return clients.Notifications.SendEmailVerification(ctx, domain.EmailVerificationForUser{
		User:            domain.NewEmailUser(*user),
		VerifyEmailPath: s.cfg.VerifyEmailURL(),
		Token:           token,
	})
}

// ApplyEmailVerify применяет токен подтверждения почты и шлёт
// подтверждающее письмо.
func (s *AccountSaga) ApplyEmailVerify(ctx context.Context, headers domain.Headers, req domain.EmailVerifyApply) error {
	clients := s.clients.ForRequest(headers)

	email, err := clients.Users.ApplyEmailVerifyToken(ctx, req)
	if err != nil {
		return err
	}

	user, err := clients.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User not found.")
	}

	return clients.Notifications.SendApplyEmailVerification(ctx, domain.ApplyEmailVerificationForUser{
		User:       domain.NewEmailUser(*user),
		ClusterURL: s.cfg.ClusterURL,
	})
}

// RequestPasswordReset запускает сброс пароля: чеканит токен и шлёт
// письмо со ссылкой.
func (s *AccountSaga) RequestPasswordReset(ctx context.Context, headers domain.Headers, req domain.ResetRequest) error {
	clients := s.clients.ForRequest(headers)

	user, err := clients.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User not found.")
	}

	token, err := clients.Users.CreatePasswordResetToken(ctx, req, user.ID)
	if err != nil {
		return err
	}

	return clients.Notifications.SendPasswordReset(ctx, domain.PasswordResetForUser{
		User:              domain.NewEmailUser(*user),
		ResetPasswordPath: s.cfg.ResetPasswordURL(),
		Token:             token,
	})
}

// ApplyPasswordReset применяет токен сброса пароля и шлёт письмо о
// смене пароля.
func (s *AccountSaga) ApplyPasswordReset(ctx context.Context, headers domain.Headers, req domain.PasswordResetApply) error {
	clients := s.clients.ForRequest(headers)

	email, err := clients.Users.ApplyPasswordResetToken(ctx, req)
	if err != nil {
		return err
	}

	user, err := clients.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User not found.")
	}

	return clients.Notifications.SendApplyPasswordReset(ctx, domain.ApplyPasswordResetForUser{
		User:       domain.NewEmailUser(*user),
		ClusterURL: s.cfg.ClusterURL,
	})
}
