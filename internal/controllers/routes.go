package controllers

import "github.com/gin-gonic/gin"

// AttachRoutes registers the full API surface with the engine.
func AttachRoutes(r *gin.Engine) {
	r.POST("/session", Login)
	r.DELETE("/session", Logout)
	r.POST("/auth/register", Register)

	protected := r.Group("/", RequireSession)

	protected.GET("/session", Profile)

	users := protected.Group("/users")
	{
		users.GET("", GetUsers)
		users.GET("/search", SearchUsers)
		users.GET("/:id", GetUser)
	}

	groups := protected.Group("/groups")
	{
		groups.GET("", GetGroups)
		groups.POST("", CreateGroup)
		groups.GET("/:id", GetGroup)
		groups.PUT("/:id", UpdateGroup)
		groups.DELETE("/:id", DeleteGroup)
		groups.POST("/:id/add_users", AddGroupUsers)
		groups.DELETE("/:id/remove_users", RemoveGroupUsers)
	}

	expenses := protected.Group("/expenses")
	{
		expenses.GET("", GetExpenses)
		expenses.POST("", CreateExpense)
		expenses.GET("/balance", GetBalance)
		expenses.GET("/:id", GetExpense)
		expenses.PUT("/:id", UpdateExpense)
		expenses.DELETE("/:id", DeleteExpense)
		expenses.POST("/:id/pay", PayExpense)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", GetCategories)
		categories.POST("", CreateCategory)
		categories.GET("/:id", GetCategory)
		categories.PUT("/:id", UpdateCategory)
		categories.DELETE("/:id", DeleteCategory)
	}

	protected.POST("/invitations", CreateInvitation)
}
