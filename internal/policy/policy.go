// internal/policy/policy.go
package policy

import (
	"context"

	"teamspace-api/internal/models"
)

// MembershipSource is the read-only slice of the membership authority the
// workspace checks need.
type MembershipSource interface {
    IsMember(ctx context.Context, userID, workspaceID string) (bool, error)
    RoleOf(ctx context.Context, userID, workspaceID string) (string, error)
}

// RoleSource exposes a user's global roles and staff bits.
type RoleSource interface {
    RoleNames(ctx context.Context, userID string) (map[string]bool, error)
    Flags(ctx context.Context, userID string) (staff, superuser bool, err error)
}

// Requirement is declared per endpoint. A nil RequiredRoles slice means
// the endpoint declared nothing, which the role check denies outright.
type Requirement struct {
    RequiredRoles []string
    RequireAll    bool
}

// CheckMembership denies without an authenticated principal or a resolved
// workspace, otherwise defers to the membership authority.
func CheckMembership(ctx context.Context, src MembershipSource, userID string, ws *models.Workspace) (bool, error) {
    if userID == "" || ws == nil {
        return false, nil
    }
    return src.IsMember(ctx, userID, ws.ID)
}

// CheckAdminOrOwner allows only the admin and owner roles. The workspace
// is always the request-bound one from the tenancy resolver.
func CheckAdminOrOwner(ctx context.Context, src MembershipSource, userID string, ws *models.Workspace) (bool, error) {
    if userID == "" || ws == nil {
        return false, nil
    }
    role, err := src.RoleOf(ctx, userID, ws.ID)
    if err != nil {
        return false, err
    }
    return role == models.RoleAdmin || role == models.RoleOwner, nil
}

// CheckRoles evaluates the global, workspace-independent role requirement.
// Order: deny anonymous, allow staff/superuser, deny undeclared
// requirements, then the any-of or all-of set test.
func CheckRoles(ctx context.Context, src RoleSource, userID string, req Requirement) (bool, error) {
    if userID == "" {
        return false, nil
    }

    staff, superuser, err := src.Flags(ctx, userID)
    if err != nil {
        return false, err
    }
    if staff || superuser {
        return true, nil
    }

    if req.RequiredRoles == nil {
        return false, nil
    }

    names, err := src.RoleNames(ctx, userID)
    if err != nil {
        return false, err
    }

    if req.RequireAll {
        for _, required := range req.RequiredRoles {
            if !names[required] {
                return false, nil
            }
        }
        return true, nil
    }

    for _, required := range req.RequiredRoles {
        if names[required] {
            return true, nil
        }
    }
    return false, nil
}
