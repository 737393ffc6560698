package domain

import "encoding/json"

// NewStore — входящий запрос саги создания магазина.
// Переводимые поля (name, описания) приходят массивом переводов
// и передаются в stores microservice как есть.
type NewStore struct {
	UserID           int64           `json:"user_id"`
	Name             json.RawMessage `json:"name"`
	ShortDescription json.RawMessage `json:"short_description"`
	LongDescription  json.RawMessage `json:"long_description,omitempty"`
	Slug             string          `json:"slug"`
	Phone            *string         `json:"phone"`
	Email            *string         `json:"email"`
	DefaultLanguage  string          `json:"default_language"`
	Slogan           *string         `json:"slogan,omitempty"`
	Cover            *string         `json:"cover,omitempty"`
	Logo             *string         `json:"logo,omitempty"`
}

// Store — магазин, как его отдаёт stores microservice.
type Store struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Name   json.RawMessage `json:"name"`
	Slug   string          `json:"slug"`
	Email  *string         `json:"email"`
}

// NewWarehouseRole — назначение роли в warehouses microservice.
// Data несёт id магазина, которым управляет пользователь.
type NewWarehouseRole struct {
	Name string `json:"name"`
	Data int64  `json:"data"`
}
