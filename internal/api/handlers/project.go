package handlers

import (
	"net/http"

	"teamspace-api/internal/models"
	"teamspace-api/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListProjects godoc
// @Summary List projects in the request-bound workspace
// @Description Scoped listing: without a resolved workspace, or without an
// active membership in it, the result is simply empty. No error reveals
// whether the workspace exists.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{projects=[]object}
// @Router /projects [get]
func (h *Handler) ListProjects(c *gin.Context) {
    userID := c.GetString("user_id")
    workspace := tenancy.FromContext(c)

    projects := []models.Project{}

    if workspace != nil {
        member, err := h.authority.IsMember(c.Request.Context(), userID, workspace.ID)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            return
        }
        if member {
            rows, err := h.db.Query(`
                SELECT id, workspace_id, name, description, created_by, created_at
                FROM projects
                WHERE workspace_id = ?
                ORDER BY created_at`, workspace.ID)
            if err != nil {
                c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
                return
            }
            defer rows.Close()

            for rows.Next() {
                var p models.Project
                if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt); err != nil {
                    c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
                    return
                }
                projects = append(projects, p)
            }
        }
    }

    c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject godoc
// @Summary Create a project in the request-bound workspace
// @Description Requires active membership; non-members get an explicit denial.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body object{name=string,description=string} true "Project details"
// @Success 201 {object} object{project=object}
// @Failure 403 {object} object{error=string}
// @Router /projects [post]
func (h *Handler) CreateProject(c *gin.Context) {
    userID := c.GetString("user_id")
    workspace := tenancy.FromContext(c)

    var request struct {
        Name        string `json:"name" binding:"required"`
        Description string `json:"description"`
    }

    if err := c.ShouldBindJSON(&request); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
        return
    }

    project := models.Project{
        ID:          uuid.NewString(),
        WorkspaceID: workspace.ID,
        Name:        request.Name,
        Description: request.Description,
        CreatedBy:   &userID,
    }

    _, err := h.db.Exec(`
        INSERT INTO projects (id, workspace_id, name, description, created_by)
        VALUES (?, ?, ?, ?, ?)`,
        project.ID, project.WorkspaceID, project.Name, project.Description, userID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
        return
    }

    c.JSON(http.StatusCreated, gin.H{"project": project})
}
