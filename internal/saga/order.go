package saga

import (
	"context"
	"fmt"

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

// Имя саги создания заказа в логах и метриках.
const sagaCreateOrder = "create_order"

// =============================================================================
// OrderSaga — сага создания заказа и смены статусов
// =============================================================================

// OrderSaga конвертирует корзину в заказы с инвойсом и обслуживает
// смену статусов заказов: пакетную от billing и ручную по номеру.
type OrderSaga struct {
	clients *client.Factory
	cfg     config.NotificationConfig
}

// NewOrderSaga создаёт сагу заказов.
func NewOrderSaga(clients *client.Factory, cfg config.NotificationConfig) *OrderSaga {
	return &OrderSaga{clients: clients, cfg: cfg}
}

// Create выполняет сагу создания заказа: конвертация корзины в orders,
// инвойс в billing. Вызывающему возвращается инвойс, он же экран оплаты.
func (s *OrderSaga) Create(ctx context.Context, headers domain.Headers, cart domain.ConvertCart) (*domain.Invoice, error) {
	log := logger.FromContext(ctx)

	sagaID := uuid.New().String()
	conversionID := uuid.New().String()

	ctx, span := tracing.StartSpan(ctx, "saga.create_order")
	defer span.End()
	span.SetAttributes(
		attribute.String("saga_id", sagaID),
		attribute.Int64("customer_id", cart.CustomerID),
	)

	clients := s.clients.ForRequest(headers)
	oplog := NewOperationLog()

	invoice, orders, err := s.forward(ctx, clients, oplog, sagaID, conversionID, cart)
	if err != nil {
		log.Warn().Err(err).Str("saga_id", sagaID).Msg("Сага создания заказа откатывается")
		Rollback(ctx, oplog, sagaCreateOrder, &orderCompensator{clients: clients})
		metrics.RecordSaga(sagaCreateOrder, resultRolledBack)
		span.RecordError(err)
		span.SetStatus(codes.Error, resultRolledBack)
		return nil, err
	}

	// Заказы созданы и инвойс выставлен, письма идут по принципу best effort.
	s.notifyOrders(ctx, clients, orders)

	metrics.RecordSaga(sagaCreateOrder, resultSuccess)
	span.SetStatus(codes.Ok, "")
	log.Info().
		Str("saga_id", sagaID).
		Str("invoice_id", invoice.ID).
		Int("orders", len(orders)).
		Msg("Сага создания заказа завершена")

	return invoice, nil
}

// BuyNow оформляет покупку одного товара в обход корзины. Запрос
// разворачивается в конвертацию корзины из одной позиции и дальше
// идёт обычной сагой создания заказа.
func (s *OrderSaga) BuyNow(ctx context.Context, headers domain.Headers, buy domain.BuyNow) (*domain.Invoice, error) {
	return s.Create(ctx, headers, buy.ToConvertCart())
}

// forward выполняет прямой ход саги, дописывая маркеры в журнал.
func (s *OrderSaga) forward(ctx context.Context, clients *client.Set, oplog *OperationLog, sagaID, conversionID string, cart domain.ConvertCart) (*domain.Invoice, []domain.Order, error) {
	oplog.Start(StageOrdersConvertCart, conversionID)
	orders, err := clients.Orders.ConvertCart(ctx, domain.ConvertCartPayload{
		ConversionID: conversionID,
		ConvertCart:  cart,
	})
	if err != nil {
		return nil, nil, err
	}
	oplog.Complete(StageOrdersConvertCart, conversionID)

	oplog.Start(StageBillingCreateInvoice, sagaID)
	invoice, err := clients.Billing.CreateInvoice(ctx, domain.CreateInvoice{
		CustomerID: cart.CustomerID,
		Orders:     orders,
		Currency:   cart.Currency,
		SagaID:     sagaID,
	})
	if err != nil {
		return nil, nil, err
	}
	oplog.Complete(StageBillingCreateInvoice, sagaID)

	return invoice, orders, nil
}

// orderCompensator откатывает шаги саги создания заказа.
type orderCompensator struct {
	clients *client.Set
}

func (c *orderCompensator) Compensate(ctx context.Context, m Marker) error {
	switch m.Stage {
	case StageOrdersConvertCart:
		return c.clients.Orders.RevertConvertCart(ctx, m.Key)

	case StageBillingCreateInvoice:
		return c.clients.Billing.DeleteInvoiceBySagaID(ctx, m.Key)

	default:
		return fmt.Errorf("неизвестный шаг саги создания заказа: %s", m.Stage)
	}
}

// =============================================================================
// Смена статусов заказов
// =============================================================================

// UpdateStateByBilling применяет пакет смен статусов от billing.
// Каждый заказ читается от имени своего покупателя, статус обновляется
// от супер-админа. Журнал операций не ведётся: смену статуса не
// откатывают, её перекрывает следующая смена.
func (s *OrderSaga) UpdateStateByBilling(ctx context.Context, headers domain.Headers, updates domain.BillingOrdersVec) error {
	clients := s.clients.ForRequest(headers)

	updated := make([]domain.Order, 0, len(updates))
	for _, info := range updates {
		// Внутренние статусы биллингового цикла до orders не доносятся.
		if info.Status.SkipsOrderSync() {
			continue
		}

		order, err := clients.Orders.GetByID(ctx, info.OrderID, info.CustomerID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NewNotFound(fmt.Sprintf("Order is not found in orders microservice! id: %s", info.OrderID))
		}
		if order.State == info.Status {
			continue
		}

		result, err := clients.Orders.SetStateByID(ctx, info.OrderID, domain.UpdateStatePayload{State: info.Status})
		if err != nil {
			return err
		}
		if result != nil {
			updated = append(updated, *result)
		}
	}

	// Оплаченный заказ резервирует товар: остаток уменьшается на единицу.
	for _, order := range updated {
		if order.State == domain.OrderStatePaid {
			s.decrementStock(ctx, clients, order)
		}
	}

	s.notifyOrders(ctx, clients, updated)
	return nil
}

// decrementStock списывает одну единицу товара со складов после оплаты.
// Нулевые остатки не трогаются, ошибки склада заказ не валят.
func (s *OrderSaga) decrementStock(ctx context.Context, clients *client.Set, order domain.Order) {
	log := logger.FromContext(ctx)

	stocks, err := clients.Warehouses.FindByProduct(ctx, order.Product)
	if err != nil {
		log.Warn().Err(err).
			Int64("product_id", order.Product).
			Int64("order_slug", order.Slug).
			Msg("Остатки товара не прочитаны, списание пропущено")
		return
	}

	for _, stock := range stocks {
		if stock.Quantity <= 0 {
			continue
		}
		if err := clients.Warehouses.SetProductQuantity(ctx, stock.WarehouseID, stock.ProductID, stock.Quantity-1); err != nil {
			log.Warn().Err(err).
				Str("warehouse_id", stock.WarehouseID).
				Int64("product_id", stock.ProductID).
				Msg("Списание товара со склада не удалось")
		}
	}
}

// ManualSetState переводит заказ в статус по запросу оператора или
// магазина. Права на перевод проверяет orders microservice по
// проксированным заголовкам. Если заказ уже в запрошенном статусе,
// возвращается nil без ошибки.
func (s *OrderSaga) ManualSetState(ctx context.Context, headers domain.Headers, slug int64, payload domain.UpdateStatePayload) (*domain.Order, error) {
	clients := s.clients.ForRequest(headers)

	order, err := clients.Orders.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(fmt.Sprintf("Order is not found in orders microservice! slug: %d", slug))
	}
	if order.State == payload.State {
		return nil, nil
	}

	updated, err := clients.Orders.SetStateBySlug(ctx, slug, payload)
	if err != nil {
		return nil, err
	}

	if updated != nil {
		s.notifyOrders(ctx, clients, []domain.Order{*updated})
	}
	return updated, nil
}
