// internal/tenancy/tenancy.go
package tenancy

import (
	"database/sql"
	"teamspace-api/internal/models"

	"github.com/gin-gonic/gin"
)

// HeaderName carries the workspace identifier; QueryParam is the fallback.
const (
    HeaderName = "X-Workspace-Id"
    QueryParam = "workspace_id"

    contextKey = "workspace"
)

// Middleware binds the request's workspace, if any. A missing or
// unresolvable identifier binds no workspace and never fails the request;
// downstream policy turns "no workspace" into a uniform deny so callers
// cannot probe for workspace existence.
func Middleware(db *sql.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        workspaceID := c.GetHeader(HeaderName)
        if workspaceID == "" {
            workspaceID = c.Query(QueryParam)
        }

        if workspaceID != "" {
            var ws models.Workspace
            err := db.QueryRow(`
                SELECT id, name, slug, owner_id, created_at
                FROM workspaces
                WHERE id = ?`, workspaceID).Scan(
                &ws.ID,
                &ws.Name,
                &ws.Slug,
                &ws.OwnerID,
                &ws.CreatedAt,
            )
            if err == nil {
                Bind(c, &ws)
            }
        }

        c.Next()
    }
}

// Bind attaches a resolved workspace to the request.
func Bind(c *gin.Context, ws *models.Workspace) {
    c.Set(contextKey, ws)
}

// FromContext returns the request-bound workspace, or nil.
func FromContext(c *gin.Context) *models.Workspace {
    if v, exists := c.Get(contextKey); exists {
        if ws, ok := v.(*models.Workspace); ok {
            return ws
        }
    }
    return nil
}
