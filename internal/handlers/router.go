package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/middleware"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/services"
)

// RouterConfig bundles everything route registration needs.
type RouterConfig struct {
	Tokens     *services.TokenService
	RBAC       *services.RBACService
	Authorizer *authz.ProjectAuthorizer
	Auth       *AuthHandler
	Projects   *ProjectHandler
	Tasks      *TaskHandler
	Roles      *RoleHandler
}

// RegisterRoutes wires the full API route table. Every route composes the
// same gate: authenticate, then permission check where declared, then
// resource-level access check where the route targets an instance.
func RegisterRoutes(r *gin.Engine, cfg RouterConfig) {
	requireAuth := middleware.RequireAuth(cfg.Tokens)

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", cfg.Auth.Register)
			auth.POST("/login", cfg.Auth.Login)
			auth.POST("/refresh", cfg.Auth.Refresh)
			auth.POST("/logout", requireAuth, cfg.Auth.Logout)
			auth.GET("/me", requireAuth, cfg.Auth.Me)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projectAccess := middleware.RequireProjectAccess(cfg.Authorizer)
			projectOwner := middleware.RequireProjectOwner()

			projects.GET("", cfg.Projects.ListProjects)
			projects.POST("", middleware.RequirePermission(cfg.RBAC, models.PermCreateProject), cfg.Projects.CreateProject)
			projects.GET("/:id", projectAccess, cfg.Projects.GetProject)
			projects.PUT("/:id", projectAccess, projectOwner, cfg.Projects.UpdateProject)
			projects.DELETE("/:id", projectAccess, projectOwner, cfg.Projects.DeleteProject)

			projects.GET("/:id/members", projectAccess, cfg.Projects.ListMembers)
			projects.POST("/:id/members", projectAccess, projectOwner, cfg.Projects.AddMember)
			projects.DELETE("/:id/members/:userId", projectAccess, projectOwner, cfg.Projects.RemoveMember)

			projects.GET("/:id/tasks", projectAccess, cfg.Tasks.ListProjectTasks)
			projects.POST("/:id/tasks", projectAccess, middleware.RequirePermission(cfg.RBAC, models.PermCreateTask), cfg.Tasks.CreateTask)
			projects.POST("/:id/tasks/generate", projectAccess, middleware.RequirePermission(cfg.RBAC, models.PermCreateTask), cfg.Tasks.GenerateTasks)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			taskAccess := middleware.RequireTaskAccess(cfg.Authorizer)

			tasks.GET("/:id", taskAccess, cfg.Tasks.GetTask)
			tasks.PATCH("/:id", taskAccess, cfg.Tasks.UpdateTask)
			tasks.DELETE("/:id", taskAccess, cfg.Tasks.DeleteTask)
			tasks.POST("/:id/comments", taskAccess, cfg.Tasks.AddComment)
		}

		// Role/permission admin routes
		api.GET("/roles", requireAuth, middleware.RequirePermission(cfg.RBAC, models.PermViewAdminPanel), cfg.Roles.ListRoles)
		api.PUT("/roles/:id/permissions", requireAuth, middleware.RequirePermission(cfg.RBAC, models.PermManageRoles), cfg.Roles.UpdateRolePermissions)
		api.GET("/permissions", requireAuth, middleware.RequirePermission(cfg.RBAC, models.PermViewAdminPanel), cfg.Roles.ListPermissions)
	}
}
