package routes

import (
	"net/http"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"fleet_tracker/internal/httpx"
)

// SetupRouter wires every resource group under the /api prefix.
func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery and request logging must precede route registration
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	AuthRoutes(api)
	VehicleRoutes(api)
	MaintenanceRoutes(api)
	UserRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpx.Envelope{Success: false, Message: "route not found"})
	})

	return r
}
