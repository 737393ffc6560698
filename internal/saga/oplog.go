// Package saga реализует оркестрацию распределённых транзакций платформы.
//
// Координатор не хранит состояние между запросами: каждая сага ведёт
// собственный журнал операций в памяти запроса. Перед каждым шагом в
// журнал пишется маркер Start, после подтверждённого ответа 2xx —
// Complete. При ошибке журнал проигрывается задом наперёд, и для каждого
// начатого шага выполняется компенсирующий запрос.
package saga

import "sync"

// =============================================================================
// Шаги саг
// =============================================================================

// Stage — шаг саги. По шагу подбирается компенсирующий запрос.
type Stage string

const (
	// StageAccountCreation — создание аккаунта в users microservice.
	StageAccountCreation Stage = "account_creation"

	// StageUsersRoleSet — назначение роли по умолчанию в users microservice.
	StageUsersRoleSet Stage = "users_role_set"

	// StageStoreRoleSet — назначение роли по умолчанию в stores microservice.
	StageStoreRoleSet Stage = "store_role_set"

	// StageBillingRoleSet — назначение роли в billing microservice.
	StageBillingRoleSet Stage = "billing_role_set"

	// StageDeliveryRoleSet — назначение роли в delivery microservice.
	StageDeliveryRoleSet Stage = "delivery_role_set"

	// StageBillingCreateMerchant — создание мерчанта в billing microservice.
	StageBillingCreateMerchant Stage = "billing_create_merchant"

	// StageStoreCreation — создание магазина в stores microservice.
	StageStoreCreation Stage = "store_creation"

	// StageWarehouseRoleSet — назначение складской роли в warehouses microservice.
	StageWarehouseRoleSet Stage = "warehouse_role_set"

	// StageOrdersConvertCart — конвертация корзины в orders microservice.
	StageOrdersConvertCart Stage = "orders_convert_cart"

	// StageBillingCreateInvoice — выставление инвойса в billing microservice.
	StageBillingCreateInvoice Stage = "billing_create_invoice"
)

// Phase — фаза шага саги.
type Phase string

const (
	// PhaseStart пишется перед запросом в нижестоящий сервис.
	PhaseStart Phase = "start"

	// PhaseComplete пишется строго после подтверждённого ответа 2xx.
	PhaseComplete Phase = "complete"
)

// Marker — запись журнала операций. Key несёт идентификатор, которого
// достаточно для компенсации шага: id саги, пользователя, роли,
// магазина или конвертации.
type Marker struct {
	Stage Stage
	Phase Phase
	Key   string
}

// =============================================================================
// Журнал операций
// =============================================================================

// OperationLog — журнал операций одной саги. Живёт в памяти запроса
// и после ответа клиенту не сохраняется.
type OperationLog struct {
	mu      sync.Mutex
	entries []Marker
}

// NewOperationLog создаёт пустой журнал.
func NewOperationLog() *OperationLog {
	return &OperationLog{}
}

// Append добавляет маркер в конец журнала.
func (l *OperationLog) Append(m Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, m)
}

// Start отмечает начало шага.
func (l *OperationLog) Start(stage Stage, key string) {
	l.Append(Marker{Stage: stage, Phase: PhaseStart, Key: key})
}

// Complete отмечает подтверждённое завершение шага.
func (l *OperationLog) Complete(stage Stage, key string) {
	l.Append(Marker{Stage: stage, Phase: PhaseComplete, Key: key})
}

// Snapshot возвращает копию журнала в порядке добавления.
func (l *OperationLog) Snapshot() []Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Marker, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len возвращает число записей в журнале.
func (l *OperationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
