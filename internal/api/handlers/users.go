package handlers

import (
	"net/http"

	"teamspace-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ListUsers godoc
// @Summary List users
// @Description Administrative listing, gated by the global "admin" role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{users=[]object}
// @Failure 403 {object} object{error=string}
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
    rows, err := h.db.Query(`
        SELECT id, email, is_email_verified, is_staff, created_at, updated_at
        FROM users
        ORDER BY created_at`)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
        return
    }
    defer rows.Close()

    users := []models.User{}
    for rows.Next() {
        var u models.User
        if err := rows.Scan(&u.ID, &u.Email, &u.IsEmailVerified, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt); err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            return
        }
        users = append(users, u)
    }

    c.JSON(http.StatusOK, gin.H{"users": users})
}
