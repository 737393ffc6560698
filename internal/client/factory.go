package client

import (
	"example.com/saga-coordinator/internal/config"
	"example.com/saga-coordinator/internal/domain"
)

// Factory собирает набор клиентов под конкретный входящий запрос.
// Core с пулом соединений и предохранителями один на процесс,
// заголовки у каждого запроса свои.
type Factory struct {
	core *Core
	cfg  config.DownstreamConfig
}

// NewFactory создаёт фабрику клиентов поверх общего Core.
func NewFactory(core *Core, cfg config.DownstreamConfig) *Factory {
	return &Factory{core: core, cfg: cfg}
}

// Set — клиенты всех нижестоящих сервисов с заголовками одного запроса.
type Set struct {
	Users         *Users
	Stores        *Stores
	Orders        *Orders
	Billing       *Billing
	Delivery      *Delivery
	Warehouses    *Warehouses
	Notifications *Notifications
}

// ForRequest создаёт клиентов, несущих заголовки входящего запроса.
// Stores всегда получает валюту площадки.
func (f *Factory) ForRequest(headers domain.Headers) *Set {
	return &Set{
		Users:         &Users{core: f.core, baseURL: f.cfg.UsersURL, headers: headers},
		Stores:        &Stores{core: f.core, baseURL: f.cfg.StoresURL, headers: headers.WithCurrency(domain.CurrencySTQ)},
		Orders:        &Orders{core: f.core, baseURL: f.cfg.OrdersURL, headers: headers},
		Billing:       &Billing{core: f.core, baseURL: f.cfg.BillingURL, headers: headers},
		Delivery:      &Delivery{core: f.core, baseURL: f.cfg.DeliveryURL, headers: headers},
		Warehouses:    &Warehouses{core: f.core, baseURL: f.cfg.WarehousesURL, headers: headers},
		Notifications: &Notifications{core: f.core, baseURL: f.cfg.NotificationsURL, headers: headers},
	}
}
