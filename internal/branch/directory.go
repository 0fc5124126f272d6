// Package branch exposes the branch directory consumed by authorization.
package branch

import (
	"context"

	"docroute/internal/branch/store"
	id "docroute/pkg/domain"
)

// Directory adapts a branch store to the code-level view the authorization
// resolver scopes against.
type Directory struct {
	store store.Store
}

// NewDirectory wraps a branch store.
func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) ListCodes(ctx context.Context) ([]id.BranchCode, error) {
	branches, err := d.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]id.BranchCode, 0, len(branches))
	for _, b := range branches {
		codes = append(codes, b.Code)
	}
	return codes, nil
}

func (d *Directory) ListCodesByRegion(ctx context.Context, region int) ([]id.BranchCode, error) {
	branches, err := d.store.ListByRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	codes := make([]id.BranchCode, 0, len(branches))
	for _, b := range branches {
		codes = append(codes, b.Code)
	}
	return codes, nil
}

// RegionOf resolves a branch's region code. The boolean is false for unknown
// branches; lookup errors also report false since authorization treats both
// as "cannot scope".
func (d *Directory) RegionOf(ctx context.Context, code id.BranchCode) (int, bool) {
	b, err := d.store.FindByCode(ctx, code)
	if err != nil {
		return 0, false
	}
	return b.RegionCode, true
}
