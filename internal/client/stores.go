package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Stores — клиент stores microservice.
// Каждый вызов несёт заголовок Currency: сервис отклоняет запросы без него.
type Stores struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// Create создаёт магазин: POST /stores.
// Авторизация вызывающего прокидывается как есть.
func (s *Stores) Create(ctx context.Context, store domain.NewStore) (*domain.Store, error) {
	var created domain.Store
	err := s.core.do(ctx, ServiceStores, "POST", s.baseURL+"/stores", s.headers, store, &created)
	if err != nil {
		return nil, fmt.Errorf("создание магазина в stores microservice: %w", err)
	}
	return &created, nil
}

// AssignDefaultRole назначает роль по умолчанию: POST /roles/default/{user_id}.
func (s *Stores) AssignDefaultRole(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/roles/default/%d", s.baseURL, userID)
	if err := s.core.do(ctx, ServiceStores, "POST", urlStr, s.headers, nil, nil); err != nil {
		return fmt.Errorf("назначение роли в stores microservice: %w", err)
	}
	return nil
}

// DeleteDefaultRole снимает роль по умолчанию: DELETE /roles/default/{user_id}.
// Компенсация, выполняется от супер-админа.
func (s *Stores) DeleteDefaultRole(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/roles/default/%d", s.baseURL, userID)
	return s.core.do(ctx, ServiceStores, "DELETE", urlStr, s.headers.AsSuperAdmin(), nil, nil)
}

// DeleteByUserID удаляет магазин пользователя: DELETE /stores/by_user_id/{user_id}.
// Компенсация создания магазина, выполняется от супер-админа.
func (s *Stores) DeleteByUserID(ctx context.Context, userID int64) error {
	urlStr := fmt.Sprintf("%s/stores/by_user_id/%d", s.baseURL, userID)
	return s.core.do(ctx, ServiceStores, "DELETE", urlStr, s.headers.AsSuperAdmin(), nil, nil)
}

// Get возвращает магазин по id: GET /stores/{store_id}.
// nil без ошибки означает, что магазин не найден.
func (s *Stores) Get(ctx context.Context, storeID int64) (*domain.Store, error) {
	urlStr := fmt.Sprintf("%s/stores/%d", s.baseURL, storeID)
	var store *domain.Store
	err := s.core.do(ctx, ServiceStores, "GET", urlStr, s.headers.AsSuperAdmin(), nil, &store)
	if err != nil {
		return nil, fmt.Errorf("получение магазина из stores microservice: %w", err)
	}
	return store, nil
}
