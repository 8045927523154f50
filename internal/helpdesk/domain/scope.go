package domain

// ScopeOptions selects which membership sets contribute to a user's visible
// company set, and whether inactive companies count. Every flag defaults to
// true; companies are included by role-set union, not intersection.
type ScopeOptions struct {
	Admin      bool
	Team       bool
	Purchase   bool
	OnlyActive bool
}

// DefaultScopeOptions returns options with every flag enabled.
func DefaultScopeOptions() ScopeOptions {
	return ScopeOptions{Admin: true, Team: true, Purchase: true, OnlyActive: true}
}

// Roles lists the membership sets enabled by the options.
func (o ScopeOptions) Roles() []Role {
	roles := make([]Role, 0, 3)
	if o.Admin {
		roles = append(roles, RoleAdmin)
	}
	if o.Team {
		roles = append(roles, RoleTeam)
	}
	if o.Purchase {
		roles = append(roles, RolePurchase)
	}
	return roles
}
