// Package authz decides who may act on which branch and which role-gated
// operations they may perform.
//
// Roles are a closed enumeration with a precomputed role→capability table;
// call sites check capabilities by set membership instead of comparing role
// strings. The resolver never returns errors: a negative answer is false or
// an empty set, and callers translate that into a forbidden error at the
// operation boundary.
package authz

import id "docroute/pkg/domain"

// Role is a closed enumeration of role identifiers.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleDistrictManager Role = "district_manager"
	RoleBranchManager   Role = "branch_manager"
	RoleBranchUser      Role = "branch_user"
	RoleUploader        Role = "uploader"
	RoleUser            Role = "user"
)

// Capability is a single grantable right. Roles carry explicit capability
// lists; nothing is inherited.
type Capability string

const (
	// CapDispatch allows uploader-tier transitions: dispatching a draft and
	// re-sending a returned document back to a branch.
	CapDispatch Capability = "dispatch"
	// CapBranchTransition allows branch-tier transitions: acknowledging and
	// sending back to the district.
	CapBranchTransition Capability = "branch_transition"
	// CapVerifySlots allows verifying supplementary attachment slots. Held by
	// the tier that required the attachments, not the tier that supplied them.
	CapVerifySlots Capability = "verify_slots"
	// Branch scoping: exactly one of these determines the reachable set.
	CapScopeAllBranches    Capability = "scope_all_branches"
	CapScopeRegionBranches Capability = "scope_region_branches"
	CapScopeOwnBranch      Capability = "scope_own_branch"
)

// roleCapabilities is the precomputed role→capability table. Evaluated by
// set intersection at runtime; extend here, never at call sites.
var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapDispatch, CapBranchTransition, CapVerifySlots, CapScopeAllBranches,
	},
	RoleDistrictManager: {
		CapDispatch, CapBranchTransition, CapVerifySlots, CapScopeRegionBranches,
	},
	RoleBranchManager: {
		CapBranchTransition, CapScopeRegionBranches,
	},
	RoleBranchUser: {
		CapBranchTransition, CapScopeOwnBranch,
	},
	RoleUploader: {
		CapDispatch, CapVerifySlots, CapScopeOwnBranch,
	},
	RoleUser: {
		CapScopeOwnBranch,
	},
}

// ParseRole maps a role name onto the closed enumeration. Unknown names map
// to false so stale claims degrade to no capability instead of panicking.
func ParseRole(name string) (Role, bool) {
	r := Role(name)
	_, ok := roleCapabilities[r]
	return r, ok
}

// RolesFromNames converts claim strings to roles, silently dropping unknowns.
func RolesFromNames(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

// Principal is the acting user. The effective permission set is computed
// from Roles on every evaluation, never stored.
type Principal struct {
	ID     id.UserID
	Roles  []Role
	Branch id.BranchCode // 0 = no branch affiliation
}

// HasCapability reports whether any of the principal's roles grants cap.
func (p Principal) HasCapability(cap Capability) bool {
	for _, role := range p.Roles {
		for _, c := range roleCapabilities[role] {
			if c == cap {
				return true
			}
		}
	}
	return false
}
