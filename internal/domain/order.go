package domain

// OrderState — статус заказа в платформе.
// Жизненный цикл: New → PaymentAwaited → TransactionPending → Paid →
// InProcessing → Sent → Delivered → Received → Complete, с ветками
// AmountExpired и Cancelled.
type OrderState string

const (
	// OrderStateNew — заказ только что создан из корзины.
	OrderStateNew OrderState = "New"

	// OrderStatePaymentAwaited — выставлен инвойс, ожидается оплата.
	OrderStatePaymentAwaited OrderState = "PaymentAwaited"

	// OrderStateTransactionPending — платёж в блокчейне, ждём подтверждения.
	OrderStateTransactionPending OrderState = "TransactionPending"

	// OrderStateAmountExpired — кошелёк инвойса просрочен.
	OrderStateAmountExpired OrderState = "AmountExpired"

	// OrderStatePaid — оплата подтверждена.
	OrderStatePaid OrderState = "Paid"

	// OrderStateInProcessing — магазин собирает заказ.
	OrderStateInProcessing OrderState = "InProcessing"

	// OrderStateCancelled — заказ отменён.
	OrderStateCancelled OrderState = "Cancelled"

	// OrderStateSent — заказ передан в доставку.
	OrderStateSent OrderState = "Sent"

	// OrderStateDelivered — заказ доставлен получателю.
	OrderStateDelivered OrderState = "Delivered"

	// OrderStateReceived — получатель подтвердил получение.
	OrderStateReceived OrderState = "Received"

	// OrderStateComplete — сделка закрыта.
	OrderStateComplete OrderState = "Complete"
)

// SkipsOrderSync сообщает, что статус инвойса не переносится на заказы.
// AmountExpired и TransactionPending — внутренние статусы billing-цикла,
// orders microservice про них не знает.
func (s OrderState) SkipsOrderSync() bool {
	return s == OrderStateAmountExpired || s == OrderStateTransactionPending
}

// Order — заказ, как его отдаёт orders microservice.
type Order struct {
	ID       string     `json:"id"`
	Slug     int64      `json:"slug"`
	State    OrderState `json:"state"`
	Customer int64      `json:"customer"`
	Store    int64      `json:"store"`
	Product  int64      `json:"product"`
	Quantity int32      `json:"quantity"`
}

// CartPrice — позиция корзины: цена и количество одного товара.
type CartPrice struct {
	Price        float64 `json:"price"`
	Quantity     int32   `json:"quantity"`
	PreOrder     bool    `json:"pre_order"`
	PreOrderDays int32   `json:"pre_order_days"`
}

// Address — адрес доставки в развёрнутом виде.
type Address struct {
	AdministrativeAreaLevel1 *string `json:"administrative_area_level_1"`
	AdministrativeAreaLevel2 *string `json:"administrative_area_level_2"`
	Country                  *string `json:"country"`
	Locality                 *string `json:"locality"`
	Political                *string `json:"political"`
	PostalCode               *string `json:"postal_code"`
	Route                    *string `json:"route"`
	StreetNumber             *string `json:"street_number"`
	Address                  *string `json:"address"`
	PlaceID                  *string `json:"place_id"`
}

// ConvertCart — входящий запрос саги создания заказа.
// Prices индексирован id товара.
type ConvertCart struct {
	CustomerID    int64               `json:"customer_id"`
	Currency      string              `json:"currency"`
	Prices        map[int64]CartPrice `json:"prices"`
	Address       Address             `json:"address"`
	ReceiverName  string              `json:"receiver_name"`
	ReceiverPhone string              `json:"receiver_phone"`
}

// ConvertCartPayload — тело вызова конвертации корзины в orders.
// Conversion id чеканится координатором и служит ключом компенсации.
type ConvertCartPayload struct {
	ConversionID string `json:"conversion_id"`
	ConvertCart
}

// ConvertCartRevert — откат конвертации корзины.
type ConvertCartRevert struct {
	ConversionID string `json:"conversion_id"`
}

// BuyNow — покупка одного товара в обход корзины.
type BuyNow struct {
	ProductID     int64   `json:"product_id"`
	CustomerID    int64   `json:"customer_id"`
	StoreID       int64   `json:"store_id"`
	Price         float64 `json:"price"`
	Quantity      int32   `json:"quantity"`
	Currency      string  `json:"currency"`
	Address       Address `json:"address"`
	ReceiverName  string  `json:"receiver_name"`
	ReceiverPhone string  `json:"receiver_phone"`
	PreOrder      bool    `json:"pre_order"`
	PreOrderDays  int32   `json:"pre_order_days"`
}

// ToConvertCart разворачивает покупку в конвертацию корзины
// с таблицей цен из одной позиции.
func (b BuyNow) ToConvertCart() ConvertCart {
	return ConvertCart{
		CustomerID: b.CustomerID,
		Currency:   b.Currency,
		Prices: map[int64]CartPrice{
			b.ProductID: {
				Price:        b.Price,
				Quantity:     b.Quantity,
				PreOrder:     b.PreOrder,
				PreOrderDays: b.PreOrderDays,
			},
		},
		Address:       b.Address,
		ReceiverName:  b.ReceiverName,
		ReceiverPhone: b.ReceiverPhone,
	}
}

// CreateInvoice — выставление инвойса на созданные заказы.
// SagaID служит ключом идемпотентности и компенсации.
type CreateInvoice struct {
	CustomerID int64   `json:"customer_id"`
	Orders     []Order `json:"orders"`
	Currency   string  `json:"currency"`
	SagaID     string  `json:"saga_id"`
}

// Invoice — инвойс billing microservice, терминальный артефакт саги заказа.
type Invoice struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	State    string  `json:"state"`
}

// BillingOrderInfo — одно обновление статуса заказа от billing.
type BillingOrderInfo struct {
	OrderID    string     `json:"order_id"`
	CustomerID int64      `json:"customer_id"`
	Status     OrderState `json:"status"`
}

// BillingOrdersVec — пакет обновлений статусов от billing.
type BillingOrdersVec []BillingOrderInfo

// UpdateStatePayload — смена статуса заказа.
type UpdateStatePayload struct {
	State   OrderState `json:"state"`
	TrackID *string    `json:"track_id,omitempty"`
	Comment *string    `json:"comment,omitempty"`
}

// Stock — остаток товара на складе.
type Stock struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   int64  `json:"product_id"`
	Quantity    int32  `json:"quantity"`
}

// StockSetPayload — установка остатка товара на складе.
type StockSetPayload struct {
	Quantity int32 `json:"quantity"`
}
