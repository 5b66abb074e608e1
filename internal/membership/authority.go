// internal/membership/authority.go
package membership

import (
	"context"
	"database/sql"
)

// Authority answers membership and role questions from the store.
// All lookups are read-only and see active memberships only; deactivated
// rows are kept for history but are invisible to authorization.
type Authority struct {
    db *sql.DB
}

func NewAuthority(db *sql.DB) *Authority {
    return &Authority{db: db}
}

func (a *Authority) IsMember(ctx context.Context, userID, workspaceID string) (bool, error) {
    var exists bool
    err := a.db.QueryRowContext(ctx, `
        SELECT EXISTS(
            SELECT 1 FROM memberships
            WHERE user_id = ? AND workspace_id = ? AND is_active = TRUE
        )`, userID, workspaceID).Scan(&exists)
    if err != nil {
        return false, err
    }
    return exists, nil
}

// RoleOf returns the role of the active membership for the pair, or ""
// when there is none. Uniqueness of (user, workspace) guarantees at most
// one row.
func (a *Authority) RoleOf(ctx context.Context, userID, workspaceID string) (string, error) {
    var role string
    err := a.db.QueryRowContext(ctx, `
        SELECT role FROM memberships
        WHERE user_id = ? AND workspace_id = ? AND is_active = TRUE
        LIMIT 1`, userID, workspaceID).Scan(&role)
    if err == sql.ErrNoRows {
        return "", nil
    }
    if err != nil {
        return "", err
    }
    return role, nil
}

// RoleNames returns the user's global role names as a set.
func (a *Authority) RoleNames(ctx context.Context, userID string) (map[string]bool, error) {
    rows, err := a.db.QueryContext(ctx, `
        SELECT r.name
        FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id = ?`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    names := make(map[string]bool)
    for rows.Next() {
        var name string
        if err := rows.Scan(&name); err != nil {
            return nil, err
        }
        names[name] = true
    }
    return names, rows.Err()
}

// Flags reports the staff and superuser bits. An unknown user is neither.
func (a *Authority) Flags(ctx context.Context, userID string) (staff, superuser bool, err error) {
    err = a.db.QueryRowContext(ctx, `
        SELECT is_staff, is_superuser FROM users WHERE id = ?`, userID).Scan(&staff, &superuser)
    if err == sql.ErrNoRows {
        return false, false, nil
    }
    if err != nil {
        return false, false, err
    }
    return staff, superuser, nil
}
