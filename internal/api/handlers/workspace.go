package handlers

import (
	"database/sql"
	"net/http"

	"teamspace-api/internal/models"
	"teamspace-api/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateWorkspace godoc
// @Summary Create a workspace
// @Description Creates a workspace owned by the caller with an automatic owner membership
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workspace body object{name=string,slug=string} true "Workspace details"
// @Success 201 {object} object{message=string,workspace=object}
// @Failure 400 {object} object{errors=object}
// @Router /workspaces [post]
func (h *Handler) CreateWorkspace(c *gin.Context) {
    userID := c.GetString("user_id")

    var request struct {
        Name string `json:"name" binding:"required"`
        Slug string `json:"slug" binding:"required"`
    }

    if err := c.ShouldBindJSON(&request); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Name and slug are required"})
        return
    }

    tx, err := h.db.Begin()
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }

    workspace := models.Workspace{
        ID:      uuid.NewString(),
        Name:    request.Name,
        Slug:    request.Slug,
        OwnerID: &userID,
    }

    _, err = tx.Exec(`
        INSERT INTO workspaces (id, name, slug, owner_id)
        VALUES (?, ?, ?, ?)`,
        workspace.ID, workspace.Name, workspace.Slug, userID)
    if isDuplicateKey(err) {
        tx.Rollback()
        c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"slug": "Slug already in use"}})
        return
    }
    if err != nil {
        tx.Rollback()
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workspace"})
        return
    }

    // Creator becomes the owner member in the same transaction.
    _, err = tx.Exec(`
        INSERT INTO memberships (id, workspace_id, user_id, role, is_active)
        VALUES (?, ?, ?, ?, TRUE)`,
        uuid.NewString(), workspace.ID, userID, models.RoleOwner)
    if err != nil {
        tx.Rollback()
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create membership"})
        return
    }

    if err := tx.Commit(); err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
        return
    }

    c.JSON(http.StatusCreated, gin.H{
        "message": "Workspace created successfully",
        "workspace": gin.H{
            "id":   workspace.ID,
            "name": workspace.Name,
            "slug": workspace.Slug,
        },
    })
}

// ListWorkspaces godoc
// @Summary List the caller's workspaces
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{workspaces=[]object}
// @Router /workspaces [get]
func (h *Handler) ListWorkspaces(c *gin.Context) {
    userID := c.GetString("user_id")

    rows, err := h.db.Query(`
        SELECT w.id, w.name, w.slug, w.owner_id, w.created_at
        FROM workspaces w
        JOIN memberships m ON m.workspace_id = w.id
        WHERE m.user_id = ? AND m.is_active = TRUE
        ORDER BY w.created_at`, userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }
    defer rows.Close()

    workspaces := []models.Workspace{}
    for rows.Next() {
        var ws models.Workspace
        if err := rows.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.CreatedAt); err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            return
        }
        workspaces = append(workspaces, ws)
    }

    c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// InviteToWorkspace godoc
// @Summary Invite a user to the request-bound workspace
// @Description Admin or owner only. Creating the same membership twice returns the existing one.
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invite body models.WorkspaceInvite true "Invitee email"
// @Success 200 {object} object{membership=object}
// @Success 201 {object} object{membership=object}
// @Failure 404 {object} object{error=string}
// @Router /workspaces/invite [post]
func (h *Handler) InviteToWorkspace(c *gin.Context) {
    workspace := tenancy.FromContext(c)

    var invite models.WorkspaceInvite
    if err := c.ShouldBindJSON(&invite); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    var invitedUserID string
    err := h.db.QueryRow("SELECT id FROM users WHERE email = ?", invite.Email).Scan(&invitedUserID)
    if err == sql.ErrNoRows {
        c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
        return
    } else if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }

    // Get-or-create under the (user, workspace) unique key. When two
    // invites race, the loser's insert is ignored and both observe the
    // same row.
    result, err := h.db.Exec(`
        INSERT IGNORE INTO memberships (id, workspace_id, user_id, role, is_active)
        VALUES (?, ?, ?, ?, TRUE)`,
        uuid.NewString(), workspace.ID, invitedUserID, models.RoleMember)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create membership"})
        return
    }
    inserted, _ := result.RowsAffected()

    var m models.Membership
    err = h.db.QueryRow(`
        SELECT m.id, m.workspace_id, m.user_id, u.email, m.role, m.is_active, m.created_at
        FROM memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.workspace_id = ? AND m.user_id = ?`,
        workspace.ID, invitedUserID).Scan(
        &m.ID, &m.WorkspaceID, &m.UserID, &m.UserEmail, &m.Role, &m.IsActive, &m.CreatedAt)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }

    status := http.StatusOK
    if inserted > 0 {
        status = http.StatusCreated
    }
    c.JSON(status, gin.H{"membership": m})
}

// ListMemberships godoc
// @Summary List memberships of the request-bound workspace
// @Description Admin or owner only. Includes deactivated rows for audit.
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{memberships=[]object}
// @Router /memberships [get]
func (h *Handler) ListMemberships(c *gin.Context) {
    workspace := tenancy.FromContext(c)

    rows, err := h.db.Query(`
        SELECT m.id, m.workspace_id, m.user_id, u.email, m.role, m.is_active, m.created_at
        FROM memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.workspace_id = ?
        ORDER BY m.created_at`, workspace.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }
    defer rows.Close()

    memberships := []models.Membership{}
    for rows.Next() {
        var m models.Membership
        if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.UserEmail, &m.Role, &m.IsActive, &m.CreatedAt); err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            return
        }
        memberships = append(memberships, m)
    }

    c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// DeactivateMembership godoc
// @Summary Deactivate a membership
// @Description Admin or owner only. The row is kept for history and
// becomes invisible to authorization.
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /memberships/{id} [delete]
func (h *Handler) DeactivateMembership(c *gin.Context) {
    workspace := tenancy.FromContext(c)
    membershipID := c.Param("id")

    result, err := h.db.Exec(`
        UPDATE memberships SET is_active = FALSE
        WHERE id = ? AND workspace_id = ?`,
        membershipID, workspace.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }

    rows, _ := result.RowsAffected()
    if rows == 0 {
        // Either unknown or already inactive; check which.
        var exists bool
        if err := h.db.QueryRow(`
            SELECT EXISTS(SELECT 1 FROM memberships WHERE id = ? AND workspace_id = ?)`,
            membershipID, workspace.ID).Scan(&exists); err != nil || !exists {
            c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
            return
        }
    }

    c.JSON(http.StatusOK, gin.H{"message": "Membership deactivated"})
}
