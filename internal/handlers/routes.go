package handlers

import (
	"github.com/gin-gonic/gin"
)

// API bundles the handlers mounted under /api.
type API struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Employees   *EmployeeHandler
	Teams       *TeamHandler
	AuditLogs   *AuditLogHandler
	RequireAuth gin.HandlerFunc
}

// Register mounts every /api route on r.
func (a API) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		// Auth routes (login and logout are public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", a.Auth.Login)
			auth.POST("/logout", a.Auth.Logout)
			auth.GET("/me", a.RequireAuth, a.Auth.GetCurrentUser)
		}

		// User administration (admin writes, admin and hr reads)
		users := api.Group("/users")
		users.Use(a.RequireAuth)
		{
			users.GET("", a.Users.ListUsers)
			users.POST("", a.Users.CreateUser)
			users.GET("/roles", a.Users.ListRoles)
			users.GET("/:id", a.Users.GetUser)
			users.PUT("/:id/role", a.Users.UpdateUserRole)
			users.PATCH("/:id/toggle-active", a.Users.ToggleUserActive)
		}

		// Employee routes (protected)
		employees := api.Group("/employees")
		employees.Use(a.RequireAuth)
		{
			employees.GET("", a.Employees.ListEmployees)
			employees.POST("", a.Employees.CreateEmployee)
			employees.GET("/org-chart", a.Employees.GetOrgChart)
			employees.POST("/bulk-import", a.Employees.BulkImport)
			employees.GET("/:id", a.Employees.GetEmployee)
			employees.PUT("/:id", a.Employees.UpdateEmployee)
			employees.DELETE("/:id", a.Employees.DeleteEmployee)
			employees.GET("/:id/direct-reports", a.Employees.GetDirectReports)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(a.RequireAuth)
		{
			teams.GET("", a.Teams.ListTeams)
			teams.POST("", a.Teams.CreateTeam)
			teams.GET("/hierarchy", a.Teams.GetTeamHierarchy)
			teams.GET("/:id", a.Teams.GetTeam)
			teams.PUT("/:id", a.Teams.UpdateTeam)
			teams.DELETE("/:id", a.Teams.DeleteTeam)
			teams.GET("/:id/members", a.Teams.GetTeamMembers)
			teams.POST("/:id/members/:employee_id", a.Teams.AddTeamMember)
			teams.DELETE("/:id/members/:employee_id", a.Teams.RemoveTeamMember)
		}

		// Audit routes (protected, admin and hr only)
		audit := api.Group("/audit-logs")
		audit.Use(a.RequireAuth)
		{
			audit.GET("", a.AuditLogs.ListAuditLogs)
			audit.GET("/entity", a.AuditLogs.GetEntityHistory)
		}
	}
}
