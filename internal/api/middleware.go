// internal/api/middleware.go
package api

import (
	"net/http"
	"strings"

	"teamspace-api/internal/auth"
	"teamspace-api/internal/policy"
	"teamspace-api/internal/tenancy"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(sessions *auth.Sessions) gin.HandlerFunc {
    return func(c *gin.Context) {
        token := bearerToken(c)
        if token == "" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
            c.Abort()
            return
        }

        userID, err := sessions.Validate(c.Request.Context(), token)
        if err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
            c.Abort()
            return
        }

        c.Set("user_id", userID)
        c.Next()
    }
}

func bearerToken(c *gin.Context) string {
    authHeader := c.GetHeader("Authorization")
    if authHeader == "" {
        return ""
    }
    parts := strings.Split(authHeader, " ")
    if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
        return ""
    }
    return parts[1]
}

// RequireMembership gates an endpoint on active membership in the
// request-bound workspace. No principal or no workspace is the same deny
// as not being a member.
func RequireMembership(src policy.MembershipSource) gin.HandlerFunc {
    return func(c *gin.Context) {
        allowed, err := policy.CheckMembership(c.Request.Context(), src, c.GetString("user_id"), tenancy.FromContext(c))
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            c.Abort()
            return
        }
        if !allowed {
            c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
            c.Abort()
            return
        }
        c.Next()
    }
}

func RequireAdminOrOwner(src policy.MembershipSource) gin.HandlerFunc {
    return func(c *gin.Context) {
        allowed, err := policy.CheckAdminOrOwner(c.Request.Context(), src, c.GetString("user_id"), tenancy.FromContext(c))
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            c.Abort()
            return
        }
        if !allowed {
            c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
            c.Abort()
            return
        }
        c.Next()
    }
}

func RequireRoles(src policy.RoleSource, req policy.Requirement) gin.HandlerFunc {
    return func(c *gin.Context) {
        allowed, err := policy.CheckRoles(c.Request.Context(), src, c.GetString("user_id"), req)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
            c.Abort()
            return
        }
        if !allowed {
            c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
            c.Abort()
            return
        }
        c.Next()
    }
}
