package saga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/saga-coordinator/internal/domain"
)

// =============================================================================
// Тесты плана уведомлений
// =============================================================================

func TestNotificationPlan(t *testing.T) {
	tests := []struct {
		state domain.OrderState
		user  emailKind
		store emailKind
	}{
		{domain.OrderStateNew, emailOrderCreate, emailNone},
		{domain.OrderStatePaymentAwaited, emailNone, emailNone},
		{domain.OrderStateTransactionPending, emailNone, emailNone},
		{domain.OrderStateAmountExpired, emailNone, emailNone},
		{domain.OrderStatePaid, emailOrderUpdate, emailOrderCreate},
		{domain.OrderStateInProcessing, emailOrderUpdate, emailOrderUpdate},
		{domain.OrderStateCancelled, emailOrderUpdate, emailOrderUpdate},
		{domain.OrderStateSent, emailOrderUpdate, emailOrderUpdate},
		{domain.OrderStateDelivered, emailOrderUpdate, emailOrderUpdate},
		{domain.OrderStateReceived, emailOrderUpdate, emailOrderUpdate},
		{domain.OrderStateComplete, emailOrderUpdate, emailOrderUpdate},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			user, store := notificationPlan(tt.state)
			assert.Equal(t, tt.user, user, "письмо покупателю")
			assert.Equal(t, tt.store, store, "письмо магазину")
		})
	}
}

// =============================================================================
// Тесты рассылки
// =============================================================================

func TestNotifyOrders_StoreWithoutEmail(t *testing.T) {
	p := newTestPlatform(t)
	p.users.stub("GET", "/users/42", 200, domain.User{ID: 42, Email: "buyer@example.com"})
	// Магазин без почты: письма магазину пропускаются молча
	p.stores.stub("GET", "/stores/7", 200, domain.Store{ID: 7})

	saga := NewOrderSaga(p.factory, testNotificationConfig())
	clients := p.factory.ForRequest(domain.Headers{})

	saga.notifyOrders(context.Background(), clients, []domain.Order{testOrder(domain.OrderStatePaid)})

	require.Len(t, p.notifications.callsTo("POST", "/users/order-update-state"), 1)
	assert.Empty(t, p.notifications.callsTo("POST", "/stores/order-create"))
}

func TestNotifyOrders_UserLookupFailure(t *testing.T) {
	p := newTestPlatform(t)
	p.users.stub("GET", "/users/42", 500, domain.ErrorEnvelope{Code: 500, Description: "Internal error"})

	saga := NewOrderSaga(p.factory, testNotificationConfig())
	clients := p.factory.ForRequest(domain.Headers{})

	// Ошибка чтения покупателя глотается, паники и писем нет
	saga.notifyOrders(context.Background(), clients, []domain.Order{testOrder(domain.OrderStateNew)})

	assert.Equal(t, 0, p.notifications.callCount())
}

func TestNotifyOrders_MultipleOrders(t *testing.T) {
	p := newTestPlatform(t)
	p.users.stub("GET", "/users/42", 200, domain.User{ID: 42, Email: "buyer@example.com"})

	second := testOrder(domain.OrderStateNew)
	second.ID = "ord-2"
	second.Slug = 101

	saga := NewOrderSaga(p.factory, testNotificationConfig())
	clients := p.factory.ForRequest(domain.Headers{})

	saga.notifyOrders(context.Background(), clients, []domain.Order{
		testOrder(domain.OrderStateNew),
		second,
	})

	// По письму на каждый заказ
	assert.Len(t, p.notifications.callsTo("POST", "/users/order-create"), 2)
}
