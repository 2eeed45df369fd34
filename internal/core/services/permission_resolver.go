package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
)

// DefaultAdminRole is the role granted the full permission universe when a
// user carries no explicit permissions.
const DefaultAdminRole = "admin"

// PermissionResolver turns a user payload into its effective permission set.
type PermissionResolver struct {
	BaseService
	adminRole string
	universe  []string
}

// NewPermissionResolver creates a resolver. Empty arguments select the
// default admin role and domain.AllPermissions.
func NewPermissionResolver(adminRole string, universe []string) *PermissionResolver {
	if adminRole == "" {
		adminRole = DefaultAdminRole
	}
	if len(universe) == 0 {
		universe = domain.AllPermissions
	}
	return &PermissionResolver{adminRole: adminRole, universe: slices.Clone(universe)}
}

// Universe lists every known permission.
func (r *PermissionResolver) Universe() []string { return slices.Clone(r.universe) }

// Derive unions the user's direct permissions with those of every role. When
// that union is empty and the user holds the admin role, the full universe is
// granted instead; that branch is logged at WARN and marked on the set.
func (r *PermissionResolver) Derive(ctx context.Context, user domain.User) domain.PermissionSet {
	ids := slices.Clone(user.Permissions)
	for _, role := range user.Roles {
		ids = append(ids, role.Permissions...)
	}
	set := domain.NewPermissionSet(ids...)
	if !set.IsEmpty() || !user.HasRole(r.adminRole) {
		return set
	}

	r.LogWarn(ctx, "Admin role carries no permissions, granting the full permission universe",
		slog.String("user_id", user.UserID.String()),
		slog.Any("roles", user.RoleNames()),
		slog.Int("granted", len(r.universe)))
	return domain.AdminFallbackSet(r.universe)
}
