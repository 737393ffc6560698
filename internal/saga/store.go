package saga

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"example.com/saga-coordinator/internal/client"
	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/pkg/logger"
	"example.com/saga-coordinator/pkg/metrics"
	"example.com/saga-coordinator/pkg/tracing"
)

// Имя саги создания магазина в логах и метриках.
const sagaCreateStore = "create_store"

// StoreSaga создаёт магазин и выдаёт владельцу права управления им
// в warehouses, billing и delivery.
type StoreSaga struct {
	clients *client.Factory
}

// NewStoreSaga создаёт сагу магазинов.
func NewStoreSaga(clients *client.Factory) *StoreSaga {
	return &StoreSaga{clients: clients}
}

// Create выполняет сагу создания магазина: магазин в stores, складская
// роль владельца по id магазина, роли store_manager в billing и
// delivery, мерчант магазина в billing.
func (s *StoreSaga) Create(ctx context.Context, headers domain.Headers, newStore domain.NewStore) (*domain.Store, error) {
	log := logger.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "saga.create_store")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", newStore.UserID))

	clients := s.clients.ForRequest(headers)
	oplog := NewOperationLog()

	store, err := s.forward(ctx, clients, oplog, newStore)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", newStore.UserID).Msg("Сага создания магазина откатывается")
		Rollback(ctx, oplog, sagaCreateStore, &storeCompensator{clients: clients})
		metrics.RecordSaga(sagaCreateStore, resultRolledBack)
		span.RecordError(err)
		span.SetStatus(codes.Error, resultRolledBack)
		return nil, err
	}

	metrics.RecordSaga(sagaCreateStore, resultSuccess)
	span.SetStatus(codes.Ok, "")
	log.Info().
		Int64("store_id", store.ID).
		Int64("user_id", store.UserID).
		Msg("Сага создания магазина завершена")

	return store, nil
}

// forward выполняет прямой ход саги, дописывая маркеры в журнал.
func (s *StoreSaga) forward(ctx context.Context, clients *client.Set, oplog *OperationLog, newStore domain.NewStore) (*domain.Store, error) {
	userKey := strconv.FormatInt(newStore.UserID, 10)

	oplog.Start(StageStoreCreation, userKey)
	store, err := clients.Stores.Create(ctx, newStore)
	if err != nil {
		return nil, err
	}
	oplog.Complete(StageStoreCreation, userKey)

	oplog.Start(StageWarehouseRoleSet, userKey)
	if err := clients.Warehouses.AssignRole(ctx, store.UserID, domain.NewWarehouseRole{
		Name: domain.RoleStoreManager,
		Data: store.ID,
	}); err != nil {
		return nil, err
	}
	oplog.Complete(StageWarehouseRoleSet, userKey)

	billingRoleID := uuid.New().String()
	oplog.Start(StageBillingRoleSet, billingRoleID)
	if _, err := clients.Billing.CreateRole(ctx, domain.NewRole{
		ID:     billingRoleID,
		UserID: store.UserID,
		Name:   domain.RoleStoreManager,
		Data:   &store.ID,
	}); err != nil {
		return nil, err
	}
	oplog.Complete(StageBillingRoleSet, billingRoleID)

	deliveryRoleID := uuid.New().String()
	oplog.Start(StageDeliveryRoleSet, deliveryRoleID)
	if _, err := clients.Delivery.CreateRole(ctx, domain.NewRole{
		ID:     deliveryRoleID,
		UserID: store.UserID,
		Name:   domain.RoleStoreManager,
		Data:   &store.ID,
	}); err != nil {
		return nil, err
	}
	oplog.Complete(StageDeliveryRoleSet, deliveryRoleID)

	storeKey := strconv.FormatInt(store.ID, 10)
	oplog.Start(StageBillingCreateMerchant, storeKey)
	if _, err := clients.Billing.CreateStoreMerchant(ctx, store.ID); err != nil {
		return nil, err
	}
	oplog.Complete(StageBillingCreateMerchant, storeKey)

	return store, nil
}

// storeCompensator откатывает шаги саги создания магазина.
// Магазин удаляется по id владельца: падение могло случиться до того,
// как stores вернул созданную запись. Ключ мерчанта здесь — id
// магазина, а не пользователя.
type storeCompensator struct {
	clients *client.Set
}

func (c *storeCompensator) Compensate(ctx context.Context, m Marker) error {
	switch m.Stage {
	case StageStoreCreation:
		userID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Stores.DeleteByUserID(ctx, userID)

	case StageWarehouseRoleSet:
		userID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Warehouses.DeleteRole(ctx, userID)

	case StageBillingRoleSet:
		return c.clients.Billing.DeleteRole(ctx, m.Key)

	case StageDeliveryRoleSet:
		return c.clients.Delivery.DeleteRole(ctx, m.Key)

	case StageBillingCreateMerchant:
		storeID, err := strconv.ParseInt(m.Key, 10, 64)
		if err != nil {
			return err
		}
		return c.clients.Billing.DeleteStoreMerchant(ctx, storeID)

	default:
		return fmt.Errorf("неизвестный шаг саги создания магазина: %s", m.Stage)
	}
}
