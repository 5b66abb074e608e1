// internal/api/routes.go
package api

import (
	"database/sql"
	"teamspace-api/internal/api/handlers"
	"teamspace-api/internal/api/middleware"
	"teamspace-api/internal/auth"
	"teamspace-api/internal/membership"
	"teamspace-api/internal/policy"
	"teamspace-api/internal/ratelimit"
	"teamspace-api/internal/tenancy"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRouter(db *sql.DB, rl *ratelimit.RateLimiter, sessions *auth.Sessions, h *handlers.Handler, authority *membership.Authority) *gin.Engine {
	router := gin.Default()

	router.GET("/", h.Home)

	//Swagger Route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	authGroup := router.Group("/auth")
	authGroup.Use(middleware.AuthRateLimit(rl))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/email/verify", h.VerifyEmail)
		authGroup.POST("/password/reset", middleware.MailRateLimit(rl), h.RequestPasswordReset)
		authGroup.POST("/password/reset/confirm", h.ConfirmPasswordReset)

		authGroup.POST("/email/send", middleware.MailRateLimit(rl), AuthMiddleware(sessions), h.SendVerificationEmail)
	}

	// Workspace-scoped routes: every request is bound to a workspace (or
	// to none) before any policy check runs.
	scoped := router.Group("/")
	scoped.Use(AuthMiddleware(sessions), tenancy.Middleware(db))
	{
		scoped.POST("/workspaces", h.CreateWorkspace)
		scoped.GET("/workspaces", h.ListWorkspaces)
		scoped.POST("/workspaces/invite", RequireAdminOrOwner(authority), h.InviteToWorkspace)

		scoped.GET("/memberships", RequireAdminOrOwner(authority), h.ListMemberships)
		scoped.DELETE("/memberships/:id", RequireAdminOrOwner(authority), h.DeactivateMembership)

		scoped.GET("/projects", h.ListProjects)
		scoped.POST("/projects", RequireMembership(authority), h.CreateProject)

		scoped.GET("/users", RequireRoles(authority, policy.Requirement{RequiredRoles: []string{"admin"}}), h.ListUsers)
	}

	return router
}
