// Package domain содержит сущности платформы и ошибки координатора саг.
package domain

import "strconv"

// Имена заголовков, которыми обмениваются сервисы платформы.
const (
	HeaderAuthorization  = "Authorization"
	HeaderCorrelationID  = "X-Correlation-ID"
	HeaderRequestTimeout = "Request-Timeout"
	HeaderCurrency       = "Currency"
)

// SuperAdmin — Authorization привилегированного принципала платформы.
// Подставляется в вызовы, которые обычному пользователю запрещены:
// управление ролями billing, создание инвойсов, уведомления и
// компенсирующие удаления чужих сущностей.
const SuperAdmin = "1"

// CurrencySTQ — валюта платформы. Stores отклоняет запросы без
// заголовка Currency.
const CurrencySTQ = "STQ"

// Headers — набор заголовков входящего запроса, прокидываемый
// на каждый downstream вызов. Currency заполняется только клиентом
// stores, остальные сервисы этот заголовок не ждут.
type Headers struct {
	Authorization  string
	CorrelationID  string
	RequestTimeout string
	Currency       string
}

// WithAuthorization возвращает копию с заменённым Authorization.
func (h Headers) WithAuthorization(auth string) Headers {
	h.Authorization = auth
	return h
}

// AsSuperAdmin возвращает копию с Authorization супер-админа.
// Токен конечного пользователя в такой вызов не попадает.
func (h Headers) AsSuperAdmin() Headers {
	return h.WithAuthorization(SuperAdmin)
}

// AsUser возвращает копию с Authorization указанного пользователя.
// Платформа передаёт в заголовке числовой id принципала.
func (h Headers) AsUser(userID int64) Headers {
	return h.WithAuthorization(strconv.FormatInt(userID, 10))
}

// WithCurrency возвращает копию с заполненным заголовком Currency.
func (h Headers) WithCurrency(currency string) Headers {
	h.Currency = currency
	return h
}
