package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func UserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		// self-or-admin, enforced in the controller
		users.GET("/:id", controllers.GetUser)
		users.PUT("/:id", controllers.UpdateUser)

		admin := users.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("", controllers.ListUsers)
			admin.POST("", controllers.CreateUser)
			admin.DELETE("/:id", controllers.DeleteUser)
		}
	}
}
