package routes

import (
	"fleet_tracker/internal/controllers"
	"fleet_tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	protected := auth.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/me", controllers.Me)
		protected.PUT("/profile", controllers.UpdateProfile)
		protected.PUT("/change-password", controllers.ChangePassword)
	}
}
