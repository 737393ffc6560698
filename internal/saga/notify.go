package saga

import (
	"context"
	"strconv"
	"sync"

	"example.com/saga-coordinator/internal/client"
	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/pkg/logger"
)

// emailKind — какое письмо слать адресату.
type emailKind int

const (
	emailNone emailKind = iota
	emailOrderCreate
	emailOrderUpdate
)

// notificationPlan возвращает письма покупателю и магазину для статуса
// заказа. Покупатель узнаёт о новом заказе сразу, магазин — только
// после оплаты. Статусы ожидания оплаты писем не порождают.
func notificationPlan(state domain.OrderState) (user, store emailKind) {
	switch state {
	case domain.OrderStateNew:
		return emailOrderCreate, emailNone
	case domain.OrderStatePaymentAwaited, domain.OrderStateTransactionPending, domain.OrderStateAmountExpired:
		return emailNone, emailNone
	case domain.OrderStatePaid:
		return emailOrderUpdate, emailOrderCreate
	default:
		return emailOrderUpdate, emailOrderUpdate
	}
}

// notifyOrders рассылает письма о статусе каждого заказа. Заказы
// обрабатываются параллельно, внутри заказа письмо покупателю идёт
// раньше письма магазину. Ошибки отправки только логируются: рассылка
// не часть транзакции.
func (s *OrderSaga) notifyOrders(ctx context.Context, clients *client.Set, orders []domain.Order) {
	var wg sync.WaitGroup
	for _, order := range orders {
		wg.Add(1)
		go func(order domain.Order) {
			defer wg.Done()

			userEmail, storeEmail := notificationPlan(order.State)
			if userEmail != emailNone {
				s.notifyUser(ctx, clients, order, userEmail)
			}
			if storeEmail != emailNone {
				s.notifyStore(ctx, clients, order, storeEmail)
			}
		}(order)
	}
	wg.Wait()
}

// notifyUser шлёт письмо покупателю заказа. Профиль читается из users
// от имени самого покупателя.
func (s *OrderSaga) notifyUser(ctx context.Context, clients *client.Set, order domain.Order, kind emailKind) {
	log := logger.FromContext(ctx)

	user, err := clients.Users.Get(ctx, order.Customer)
	if err != nil {
		log.Warn().Err(err).
			Int64("user_id", order.Customer).
			Int64("order_slug", order.Slug).
			Msg("Покупатель не прочитан, письмо не отправлено")
		return
	}
	if user == nil {
		log.Warn().
			Int64("user_id", order.Customer).
			Int64("order_slug", order.Slug).
			Msg("Покупатель не найден, письмо не отправлено")
		return
	}

	slug := strconv.FormatInt(order.Slug, 10)
	var sendErr error
	switch kind {
	case emailOrderCreate:
		sendErr = clients.Notifications.SendOrderCreateForUser(ctx, domain.OrderCreateForUser{
			User:       domain.NewEmailUser(*user),
			OrderSlug:  slug,
			ClusterURL: s.cfg.ClusterURL,
		})
	case emailOrderUpdate:
		sendErr = clients.Notifications.SendOrderUpdateStateForUser(ctx, domain.OrderUpdateStateForUser{
			User:       domain.NewEmailUser(*user),
			OrderSlug:  slug,
			OrderState: string(order.State),
			ClusterURL: s.cfg.ClusterURL,
		})
	}
	if sendErr != nil {
		log.Warn().Err(sendErr).
			Int64("order_slug", order.Slug).
			Msg("Письмо покупателю не отправлено")
	}
}

// notifyStore шлёт письмо магазину заказа. Магазин без почты
// пропускается молча.
func (s *OrderSaga) notifyStore(ctx context.Context, clients *client.Set, order domain.Order, kind emailKind) {
	log := logger.FromContext(ctx)

	store, err := clients.Stores.Get(ctx, order.Store)
	if err != nil {
		log.Warn().Err(err).
			Int64("store_id", order.Store).
			Int64("order_slug", order.Slug).
			Msg("Магазин не прочитан, письмо не отправлено")
		return
	}
	if store == nil {
		log.Warn().
			Int64("store_id", order.Store).
			Int64("order_slug", order.Slug).
			Msg("Магазин не найден, письмо не отправлено")
		return
	}
	if store.Email == nil || *store.Email == "" {
		return
	}

	slug := strconv.FormatInt(order.Slug, 10)
	storeID := strconv.FormatInt(store.ID, 10)
	var sendErr error
	switch kind {
	case emailOrderCreate:
		sendErr = clients.Notifications.SendOrderCreateForStore(ctx, domain.OrderCreateForStore{
			StoreEmail: *store.Email,
			StoreID:    storeID,
			OrderSlug:  slug,
			ClusterURL: s.cfg.ClusterURL,
		})
	case emailOrderUpdate:
		sendErr = clients.Notifications.SendOrderUpdateStateForStore(ctx, domain.OrderUpdateStateForStore{
			StoreEmail: *store.Email,
			StoreID:    storeID,
			OrderSlug:  slug,
			OrderState: string(order.State),
			ClusterURL: s.cfg.ClusterURL,
		})
	}
	if sendErr != nil {
		log.Warn().Err(sendErr).
			Int64("order_slug", order.Slug).
			Msg("Письмо магазину не отправлено")
	}
}
