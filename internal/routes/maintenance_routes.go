package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"
	"fleet_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func MaintenanceRoutes(api *gin.RouterGroup) {
	maintenance := api.Group("/maintenance")
	maintenance.Use(middleware.RequireAuth())
	{
		maintenance.GET("/stats", controllers.MaintenanceStats)
		maintenance.GET("", controllers.ListMaintenance)
		maintenance.GET("/:id", controllers.GetMaintenance)

		maintenance.POST("",
			middleware.RequireRoles(models.RoleAdmin, models.RoleTechnician),
			controllers.CreateMaintenance)
		maintenance.PUT("/:id",
			middleware.RequireRoles(models.RoleAdmin, models.RoleTechnician),
			controllers.UpdateMaintenance)
		maintenance.DELETE("/:id",
			middleware.RequireRoles(models.RoleAdmin),
			controllers.DeleteMaintenance)
	}
}
