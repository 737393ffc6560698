package client

import (
	"context"
	"fmt"

	"example.com/saga-coordinator/internal/domain"
)

// Delivery — клиент delivery microservice.
// Роли в delivery управляются только супер-админом.
type Delivery struct {
	core    *Core
	baseURL string
	headers domain.Headers
}

// CreateRole назначает роль: POST /roles.
func (d *Delivery) CreateRole(ctx context.Context, role domain.NewRole) (*domain.Role, error) {
	var created domain.Role
	err := d.core.do(ctx, ServiceDelivery, "POST", d.baseURL+"/roles", d.headers.AsSuperAdmin(), role, &created)
	if err != nil {
		return nil, fmt.Errorf("назначение роли в delivery microservice: %w", err)
	}
	return &created, nil
}

// DeleteRole снимает роль: DELETE /roles/by-id/{role_id}.
func (d *Delivery) DeleteRole(ctx context.Context, roleID string) error {
	urlStr := fmt.Sprintf("%s/roles/by-id/%s", d.baseURL, roleID)
	return d.core.do(ctx, ServiceDelivery, "DELETE", urlStr, d.headers.AsSuperAdmin(), nil, nil)
}
