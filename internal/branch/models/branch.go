package models

import (
	"time"

	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
)

// Branch is a regional office, the unit of access scoping.
//
// Invariants:
//   - Code is positive and unique
//   - RegionCode groups branches for district/branch manager scoping
type Branch struct {
	Code       id.BranchCode `json:"code"`
	Name       string        `json:"name"`
	RegionCode int           `json:"region_code"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewBranch validates and constructs a Branch.
func NewBranch(code id.BranchCode, name string, regionCode int, now time.Time) (*Branch, error) {
	if code <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "branch code must be positive")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "branch name cannot be empty")
	}
	if regionCode <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "region code must be positive")
	}
	return &Branch{Code: code, Name: name, RegionCode: regionCode, CreatedAt: now}, nil
}
