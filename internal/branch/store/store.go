// Package store persists the branch directory. Two implementations: InMemory
// for tests and single-node development, Postgres for production.
package store

import (
	"context"

	"docroute/internal/branch/models"
	id "docroute/pkg/domain"
)

// Store is the branch directory contract. FindByCode returns
// sentinel.ErrNotFound for unknown codes.
type Store interface {
	Create(ctx context.Context, branch *models.Branch) error
	FindByCode(ctx context.Context, code id.BranchCode) (*models.Branch, error)
	ListAll(ctx context.Context) ([]*models.Branch, error)
	ListByRegion(ctx context.Context, regionCode int) ([]*models.Branch, error)
}
