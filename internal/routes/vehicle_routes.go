package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func VehicleRoutes(api *gin.RouterGroup) {
	vehicles := api.Group("/vehicles")
	vehicles.Use(middleware.RequireAuth())
	{
		vehicles.GET("/stats", controllers.VehicleStats)
		vehicles.GET("", controllers.ListVehicles)
		vehicles.POST("", controllers.CreateVehicle)
		vehicles.GET("/:id", controllers.GetVehicle)
		vehicles.PUT("/:id", controllers.UpdateVehicle)
		vehicles.DELETE("/:id", controllers.DeleteVehicle)
		vehicles.GET("/:id/maintenance", controllers.VehicleMaintenanceHistory)
	}
}
