package authz

import (
	"context"
	"log/slog"

	id "docroute/pkg/domain"
)

// Action is the kind of operation being authorized against a branch.
type Action string

const (
	// ActionRead covers document and list reads scoped to a branch.
	ActionRead Action = "read"
	// ActionDispatch covers uploader-tier operations (dispatch, re-send,
	// reassign). Uploader-tier principals may dispatch across branches.
	ActionDispatch Action = "dispatch"
	// ActionTransition covers branch-tier status transitions.
	ActionTransition Action = "transition"
)

// BranchDirectory lists the branches the resolver scopes against.
// Implemented by internal/branch stores.
type BranchDirectory interface {
	ListCodes(ctx context.Context) ([]id.BranchCode, error)
	ListCodesByRegion(ctx context.Context, region int) ([]id.BranchCode, error)
	RegionOf(ctx context.Context, code id.BranchCode) (int, bool)
}

// Resolver evaluates branch scoping and action permissions. It never returns
// errors: directory failures degrade to an empty set (deny) and are logged.
type Resolver struct {
	branches BranchDirectory
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for directory failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver constructs a Resolver over a branch directory.
func NewResolver(branches BranchDirectory, opts ...Option) *Resolver {
	r := &Resolver{branches: branches}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAccessibleBranches computes the set of branch codes the principal
// may act on:
//
//   - admin: all branches
//   - district_manager, branch_manager: all branches sharing the principal's
//     region code
//   - branch_user, uploader, user: exactly the affiliated branch, or empty
func (r *Resolver) ResolveAccessibleBranches(ctx context.Context, p Principal) []id.BranchCode {
	switch {
	case p.HasCapability(CapScopeAllBranches):
		codes, err := r.branches.ListCodes(ctx)
		if err != nil {
			r.warn(ctx, "branch directory list failed", err)
			return nil
		}
		return codes

	case p.HasCapability(CapScopeRegionBranches):
		if p.Branch == 0 {
			return nil
		}
		region, ok := r.branches.RegionOf(ctx, p.Branch)
		if !ok {
			return nil
		}
		codes, err := r.branches.ListCodesByRegion(ctx, region)
		if err != nil {
			r.warn(ctx, "branch directory region list failed", err)
			return nil
		}
		return codes

	case p.HasCapability(CapScopeOwnBranch):
		if p.Branch == 0 {
			return nil
		}
		return []id.BranchCode{p.Branch}

	default:
		return nil
	}
}

// CanActOnBranch composes capability membership with branch scoping.
// Dispatch is deliberately not branch-scoped: uploaders send documents to
// branches they cannot otherwise read.
func (r *Resolver) CanActOnBranch(ctx context.Context, p Principal, branch id.BranchCode, action Action) bool {
	switch action {
	case ActionDispatch:
		return p.HasCapability(CapDispatch)
	case ActionTransition:
		if !p.HasCapability(CapBranchTransition) {
			return false
		}
	case ActionRead:
		if !p.HasCapability(CapBranchTransition) && !p.HasCapability(CapDispatch) {
			return false
		}
	default:
		return false
	}

	for _, code := range r.ResolveAccessibleBranches(ctx, p) {
		if code == branch {
			return true
		}
	}
	return false
}

// CanVerifySupplementaryFile reports whether the principal may set a slot's
// verification tri-state. Verification is a counter-check by the party that
// required the attachment, so branch roles are excluded.
func (r *Resolver) CanVerifySupplementaryFile(p Principal) bool {
	return p.HasCapability(CapVerifySlots)
}

func (r *Resolver) warn(ctx context.Context, msg string, err error) {
	if r.logger != nil {
		r.logger.WarnContext(ctx, msg, "error", err)
	}
}
